package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/oshokin/objcryst/internal/config"
	"github.com/oshokin/objcryst/internal/service/debug"
	"github.com/oshokin/objcryst/internal/service/selftest"
	"github.com/oshokin/objcryst/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// selftestOptions collects the selftest flags.
	selftestOptions selftest.Options

	// rootCmd represents the base command.
	rootCmd = &cobra.Command{
		Use:   "objcryst",
		Short: "Inspect and self-test an installed objcryst build.",
		Long: `Inspect and self-test an installed objcryst build.

The version command shows the installed distribution version and the build
date carried in its YYYYMMDD suffix. The selftest command runs every check and
reports all failures; the debug command stops at the first failure and lets it
terminate the process with full context.

Settings come from an optional YAML file (--config) and OBJCRYST_* environment
variables.`,
		SilenceUsage: true,
	}

	// selftestCmd runs the suite and reports every failure.
	selftestCmd = &cobra.Command{
		Use:   "selftest",
		Short: "Run all self-test cases and report failures.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			selftestOptions.ConfigPath = configPath
			selftestOptions.Out = cmd.OutOrStdout()

			err := selftest.Run(ctx, &selftestOptions)
			if printStack(cmd.ErrOrStderr(), err) {
				cmd.SilenceErrors = true
			}

			return err
		},
	}

	// debugCmd runs the suite without catching failures.
	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Run self-test cases until the first failure, without catching it.",
		Long: `Run self-test cases in order without catching failures.

The first failing case ends the run: its error is printed with a stack trace
and the process exits with status 1. A panicking case is not recovered and
terminates the process with the Go runtime's goroutine dump.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := debug.Run(context.Background(), &debug.Options{ConfigPath: configPath})
			if err != nil {
				cmd.SilenceErrors = true
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%+v\n", err)
			}

			return err
		},
	}
)

// Execute runs the objcryst CLI and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// printStack writes err with its stack trace when it carries one, as a
// propagated case failure does, and reports whether it did.
func printStack(w io.Writer, err error) bool {
	var st stackTracer
	if err == nil || !errors.As(err, &st) {
		return false
	}

	_, _ = fmt.Fprintf(w, "%v%+v\n", err, st.StackTrace())

	return true
}

// loadVersion resolves the distribution version for the version command.
func loadVersion(*cobra.Command) (*version.Info, version.DatePolicy, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("load configuration: %w", err)
	}

	info, err := version.Load(cfg.VersionStore(), cfg.Distribution)
	if err != nil {
		return nil, "", err
	}

	return info, cfg.Policy(), nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")

	flags := selftestCmd.Flags()
	flags.StringSliceVarP(&selftestOptions.Patterns, "run", "r", nil, "glob patterns selecting cases, e.g. 'version/*'")
	flags.BoolVar(&selftestOptions.Propagate, "propagate", false, "stop at the first failure like the debug command")
	flags.StringVarP(&selftestOptions.Output, "output", "o", "", "report format: text or yaml")
	flags.StringVar(&selftestOptions.ReportFile, "report-file", "", "where to store the report")

	version.AttachCobraVersionCommand(rootCmd, loadVersion)
	rootCmd.AddCommand(selftestCmd, debugCmd)
}
