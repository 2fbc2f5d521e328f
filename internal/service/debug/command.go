package debug

import (
	"context"

	"github.com/oshokin/objcryst/internal/checks"
	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/service/common"
)

// Debugger is a suite that supports a debug run.
type Debugger interface {
	Debug(ctx context.Context) error
}

// CollectFunc builds the suite to debug.
type CollectFunc func(deps *checks.Dependencies) Debugger

// Options controls the debug launcher.
type Options struct {
	// ConfigPath is an optional settings YAML file.
	ConfigPath string
	// Collect builds the suite, checks.TestSuite when nil.
	Collect CollectFunc
}

// Run builds the suite once and debugs it once. Its error is returned as is
// and panics are not recovered, so the process sees the full failure context.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "objcryst-debug")

	deps, err := common.Bootstrap(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	collect := opts.Collect
	if collect == nil {
		collect = collectTestSuite
	}

	logger.InfoKV(ctx, "Debugging self-test suite", "distribution", deps.Info.Distribution, "version", deps.Info.Version)

	return collect(deps).Debug(ctx)
}

// collectTestSuite adapts checks.TestSuite to CollectFunc.
//
//nolint:ireturn // CollectFunc returns Debugger.
func collectTestSuite(deps *checks.Dependencies) Debugger {
	return checks.TestSuite(deps)
}
