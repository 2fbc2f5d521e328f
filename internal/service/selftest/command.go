package selftest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/objcryst/internal/checks"
	"github.com/oshokin/objcryst/internal/domain/suite"
	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/repository/report"
	"github.com/oshokin/objcryst/internal/service/common"
)

// Options controls a self-test run. Non-zero fields override the configuration.
type Options struct {
	// ConfigPath is an optional settings YAML file.
	ConfigPath string
	// Patterns select cases by glob, overriding suite.run.
	Patterns []string
	// Propagate stops at the first failure like the debug launcher.
	Propagate bool
	// Output overrides the report format ("text" or "yaml").
	Output string
	// ReportFile overrides where the report is stored.
	ReportFile string
	// Out receives the rendered report, os.Stdout when nil.
	Out io.Writer
}

// ErrFailed is returned when at least one case failed.
var ErrFailed = errors.New("self-test failed")

// Run executes the self-test suite and reports the result.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "objcryst-selftest")

	deps, err := common.Bootstrap(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	settings := deps.Config.Suite

	patterns := settings.Run
	if len(opts.Patterns) > 0 {
		patterns = opts.Patterns
	}

	s, err := checks.TestSuite(deps).Filter(patterns...)
	if err != nil {
		return fmt.Errorf("select cases: %w", err)
	}

	if opts.Propagate || settings.Propagate {
		logger.InfoKV(ctx, "Propagating failures, running in debug mode", "cases", s.Len())

		return s.Debug(ctx)
	}

	runOptions := []suite.RunOption{
		suite.WithCaseTimeout(settings.CaseTimeout),
		suite.WithVersion(deps.Info.Version),
	}

	if actor, actorErr := common.DetectActor(); actorErr != nil {
		logger.WarnKV(ctx, "Cannot detect actor", "error", actorErr)
	} else {
		runOptions = append(runOptions, suite.WithActor(actor))
	}

	logger.InfoKV(ctx, "Running self-test suite", "cases", s.Len(), "version", deps.Info.Version)

	result := s.Run(ctx, runOptions...)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	format := settings.Output
	if opts.Output != "" {
		format = opts.Output
	}

	if err = render(out, format, result); err != nil {
		return err
	}

	reportFile := settings.ReportFile
	if opts.ReportFile != "" {
		reportFile = opts.ReportFile
	}

	if reportFile != "" {
		repo := report.NewFileRepository(reportFile)
		if err = repo.Save(ctx, result); err != nil {
			return fmt.Errorf("save report: %w", err)
		}

		logger.DebugKV(ctx, "Saved report", "path", repo.Path())
	}

	if err = result.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}

	return nil
}
