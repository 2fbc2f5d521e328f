package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/objcryst/internal/config"
	"github.com/oshokin/objcryst/internal/domain/suite"
	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/version"
)

// newDependencies resolves raw through a map store under the given policy.
func newDependencies(t *testing.T, raw string, policy version.DatePolicy) *Dependencies {
	t.Helper()

	cfg := config.Default()
	cfg.Distribution = "pyobjcryst"
	cfg.DatePolicy = string(policy)

	store := version.MapStore{"pyobjcryst": raw}

	info, err := version.Load(store, cfg.Distribution)
	require.NoError(t, err)

	return &Dependencies{Config: cfg, Store: store, Info: info}
}

// TestTestSuite_Cases lists the collected cases in order.
func TestTestSuite_Cases(t *testing.T) {
	t.Parallel()

	s := TestSuite(newDependencies(t, "1.0.020230615", version.DatePolicyStrict))

	names := make([]string, 0, s.Len())
	for _, c := range s.Cases() {
		names = append(names, c.Name)
	}

	require.Equal(t, SuiteName, s.Name())
	require.Equal(t, []string{
		"version/lookup",
		"version/date",
		"config/validate",
		"logger/capture",
		"report/storage",
	}, names)
}

// TestTestSuite_PassesForTaggedRelease runs the whole suite against a well-formed version.
func TestTestSuite_PassesForTaggedRelease(t *testing.T) {
	t.Parallel()

	report := TestSuite(newDependencies(t, "1.0.020230615", version.DatePolicyStrict)).Run(context.Background())
	require.NoError(t, report.Err())
	require.Equal(t, 5, report.Count(suite.OutcomePassed))
}

// TestTestSuite_PseudoVersion accepts Go pseudo-versions.
func TestTestSuite_PseudoVersion(t *testing.T) {
	t.Parallel()

	deps := newDependencies(t, "v0.0.0-20230615123456-0123456789ab", version.DatePolicyStrict)
	require.NoError(t, TestSuite(deps).Debug(logger.Mute(context.Background())))
}

// TestTestSuite_MalformedDate is skipped when tolerant and fails when strict.
func TestTestSuite_MalformedDate(t *testing.T) {
	t.Parallel()

	report := TestSuite(newDependencies(t, "(devel)", version.DatePolicyTolerant)).Run(context.Background())
	require.NoError(t, report.Err())
	require.Equal(t, 1, report.Count(suite.OutcomeSkipped))

	err := TestSuite(newDependencies(t, "(devel)", version.DatePolicyStrict)).Debug(logger.Mute(context.Background()))
	require.ErrorIs(t, err, version.ErrMalformedDate)
	require.ErrorContains(t, err, "case version/date")
}

// TestTestSuite_VersionChanged detects a store that disagrees with start-up info.
func TestTestSuite_VersionChanged(t *testing.T) {
	t.Parallel()

	deps := newDependencies(t, "1.0.020230615", version.DatePolicyStrict)
	deps.Store = version.MapStore{"pyobjcryst": "1.0.120230701"}

	err := TestSuite(deps).Debug(logger.Mute(context.Background()))
	require.ErrorIs(t, err, errVersionMismatch)
}
