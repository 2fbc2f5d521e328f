package debug

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/objcryst/internal/checks"
	"github.com/oshokin/objcryst/internal/config"
	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/version"
)

// countingSuite records how often it was debugged and fails or panics on demand.
type countingSuite struct {
	calls int
	err   error
	panic any
}

func (s *countingSuite) Debug(context.Context) error {
	s.calls++

	if s.panic != nil {
		panic(s.panic)
	}

	return s.err
}

// writeSettings stores settings that resolve pyobjcryst to raw through a manifest.
func writeSettings(t *testing.T, raw string, policy version.DatePolicy) string {
	t.Helper()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "installed.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("distributions:\n  pyobjcryst: \""+raw+"\"\n"), 0o600))

	cfg := config.Default()
	cfg.Distribution = "pyobjcryst"
	cfg.Manifest = manifest
	cfg.DatePolicy = string(policy)

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// TestRun_OneSuiteOneDebug verifies exactly one construction and one debug call.
func TestRun_OneSuiteOneDebug(t *testing.T) {
	t.Parallel()

	var (
		built int
		s     = new(countingSuite)
	)

	err := Run(logger.Mute(context.Background()), &Options{
		ConfigPath: writeSettings(t, "1.0.020230615", version.DatePolicyStrict),
		Collect: func(deps *checks.Dependencies) Debugger {
			built++

			require.Equal(t, "1.0.020230615", deps.Info.Version)

			return s
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, built)
	require.Equal(t, 1, s.calls)
}

// TestRun_ReturnsErrorUnchanged passes the suite failure through untouched.
func TestRun_ReturnsErrorUnchanged(t *testing.T) {
	t.Parallel()

	want := errors.New("refinement diverged")
	s := &countingSuite{err: want}

	err := Run(logger.Mute(context.Background()), &Options{
		ConfigPath: writeSettings(t, "1.0.020230615", version.DatePolicyStrict),
		Collect:    func(*checks.Dependencies) Debugger { return s },
	})
	require.Same(t, want, err)
}

// TestRun_DoesNotRecover lets a panicking suite take the caller down.
func TestRun_DoesNotRecover(t *testing.T) {
	t.Parallel()

	s := &countingSuite{panic: "segfault in native library"}
	path := writeSettings(t, "1.0.020230615", version.DatePolicyStrict)

	require.PanicsWithValue(t, "segfault in native library", func() {
		_ = Run(logger.Mute(context.Background()), &Options{
			ConfigPath: path,
			Collect:    func(*checks.Dependencies) Debugger { return s },
		})
	})
	require.Equal(t, 1, s.calls)
}

// TestRun_DefaultSuite debugs the collected self-test suite.
func TestRun_DefaultSuite(t *testing.T) {
	t.Parallel()

	ctx := logger.Mute(context.Background())

	require.NoError(t, Run(ctx, &Options{ConfigPath: writeSettings(t, "1.0.020230615", version.DatePolicyStrict)}))

	err := Run(ctx, &Options{ConfigPath: writeSettings(t, "1.0.0", version.DatePolicyStrict)})
	require.ErrorIs(t, err, version.ErrMalformedDate)
}

// TestRun_MissingDistribution fails before any suite is built.
func TestRun_MissingDistribution(t *testing.T) {
	t.Parallel()

	built := false
	path := writeSettings(t, "1.0.020230615", version.DatePolicyStrict)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	cfg.Distribution = "diffpy.structure"
	require.NoError(t, config.Save(path, cfg))

	err = Run(logger.Mute(context.Background()), &Options{
		ConfigPath: path,
		Collect: func(*checks.Dependencies) Debugger {
			built = true
			return new(countingSuite)
		},
	})
	require.ErrorIs(t, err, version.ErrDistributionNotFound)
	require.False(t, built)
}
