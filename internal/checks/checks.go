package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/oshokin/objcryst/internal/config"
	"github.com/oshokin/objcryst/internal/domain/suite"
	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/repository/report"
	"github.com/oshokin/objcryst/internal/version"
)

// SuiteName is the name of the collected suite.
const SuiteName = "objcryst"

// Dependencies are the resolved start-up values the cases verify.
type Dependencies struct {
	// Config is the validated configuration.
	Config *config.Config
	// Store is the metadata store the version was resolved from.
	Store version.Store
	// Info is the version metadata resolved at start-up.
	Info *version.Info
}

var (
	// errVersionMismatch is returned when the store no longer agrees with start-up info.
	errVersionMismatch = errors.New("version changed since start-up")
	// errDateMismatch is returned when positional and parsed dates disagree.
	errDateMismatch = errors.New("build date disagrees with version suffix")
	// errCaptureBroken is returned when the log capture does not behave.
	errCaptureBroken = errors.New("log capture misbehaves")
	// errReportMismatch is returned when a stored report does not read back.
	errReportMismatch = errors.New("stored report differs")
)

// TestSuite constructs the self-test suite.
func TestSuite(deps *Dependencies) *suite.Suite {
	return suite.New(SuiteName,
		suite.Case{Name: "version/lookup", Func: deps.versionLookup},
		suite.Case{Name: "version/date", Func: deps.versionDate},
		suite.Case{Name: "config/validate", Func: deps.configValidate},
		suite.Case{Name: "logger/capture", Func: loggerCapture},
		suite.Case{Name: "report/storage", Func: reportStorage},
	)
}

// versionLookup resolves the distribution again and compares with start-up info.
func (d *Dependencies) versionLookup(ctx context.Context) error {
	v, err := d.Store.Lookup(d.Info.Distribution)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Resolved distribution", "distribution", d.Info.Distribution, "version", v)

	if v != d.Info.Version {
		return fmt.Errorf("%w: %q, now %q", errVersionMismatch, d.Info.Version, v)
	}

	return nil
}

// versionDate validates the build date under the configured policy.
func (d *Dependencies) versionDate(ctx context.Context) error {
	descriptor, err := d.Info.Descriptor(version.DatePolicyStrict)
	if err != nil {
		if d.Config.Policy() == version.DatePolicyTolerant {
			return fmt.Errorf("%w: %w", suite.ErrSkip, err)
		}

		return err
	}

	logger.InfoKV(ctx, "Parsed version",
		"release", descriptor.ReleaseString(),
		"build_date", descriptor.Date(),
		"legacy_date", d.Info.Date)

	// Pseudo-versions end in a commit hash, only tag-date versions carry the date positionally.
	if !strings.HasSuffix(d.Info.Version, descriptor.BuildDate.Format("20060102")) {
		return nil
	}

	if descriptor.Date() != d.Info.Date {
		return fmt.Errorf("%w: %s vs %s", errDateMismatch, descriptor.Date(), d.Info.Date)
	}

	return nil
}

// configValidate re-validates a copy of the configuration.
func (d *Dependencies) configValidate(ctx context.Context) error {
	cfg := *d.Config
	cfg.Suite.Run = append([]string(nil), d.Config.Suite.Run...)

	if err := config.Validate(&cfg); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Configuration is valid", "distribution", cfg.Distribution, "date_policy", cfg.DatePolicy)

	return nil
}

// loggerCapture checks that captured loggers record and muted loggers drop output.
func loggerCapture(ctx context.Context) error {
	const marker = "objcryst capture probe"

	captured, buf := logger.CaptureContext(ctx, zapcore.InfoLevel)
	logger.Info(captured, marker)

	if !strings.Contains(buf.String(), marker) {
		return fmt.Errorf("%w: message not captured", errCaptureBroken)
	}

	before := buf.String()
	logger.Error(logger.Mute(captured), marker)

	if buf.String() != before {
		return fmt.Errorf("%w: muted message leaked", errCaptureBroken)
	}

	return nil
}

// reportStorage round-trips a report through a temporary file repository.
func reportStorage(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "objcryst-selftest-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(dir)
	}()

	repo := report.NewFileRepository(filepath.Join(dir, config.DefaultReportFilename))
	want := &suite.Report{
		Suite:     SuiteName,
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Results:   []suite.Result{{Name: "report/storage", Outcome: suite.OutcomePassed}},
	}

	if err = repo.Save(ctx, want); err != nil {
		return err
	}

	got, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	if got.Suite != want.Suite || len(got.Results) != 1 || got.Results[0] != want.Results[0] {
		return errReportMismatch
	}

	logger.DebugKV(ctx, "Report round-trip succeeded", "path", repo.Path())

	return nil
}
