package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/objcryst/internal/service/debug"
)

// rootCmd debugs the self-test suite. It takes no arguments or flags.
var rootCmd = &cobra.Command{
	Use:   "objcryst-debug",
	Short: "Debug the objcryst self-test suite.",
	Long: `Convenience entry point for debugging the self-test suite.

Runs every case in order and does not catch failures: the first failing case
is printed with its stack trace and the process exits with status 1, while a
panicking case terminates the process through the Go runtime.

Settings come from OBJCRYST_* environment variables only.`,
	Args:                  cobra.NoArgs,
	DisableFlagParsing:    true,
	DisableFlagsInUseLine: true,
	SilenceUsage:          true,
	SilenceErrors:         true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		err := debug.Run(context.Background(), &debug.Options{})
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%+v\n", err)
		}

		return err
	},
}

// Execute runs the debug launcher and exits with status 1 when a case fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
