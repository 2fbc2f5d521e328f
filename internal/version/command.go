package version

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// LoadFunc resolves version metadata and the date policy for the version command.
type LoadFunc func(cmd *cobra.Command) (*Info, DatePolicy, error)

// errUnknownOutput is returned for unsupported --output values.
var errUnknownOutput = errors.New("unknown output format")

// report is the YAML shape of the version command output.
type report struct {
	Build struct {
		Version   string `yaml:"version"`
		Commit    string `yaml:"commit"`
		BuildTime string `yaml:"built_at"`
	} `yaml:"build"`
	Distribution string `yaml:"distribution"`
	Version      string `yaml:"version"`
	Date         string `yaml:"date"`
	Release      string `yaml:"release,omitempty"`
	BuildDate    string `yaml:"build_date,omitempty"`
}

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command.
// It prints build info plus the distribution version resolved by load.
func AttachCobraVersionCommand(root *cobra.Command, load LoadFunc) {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long: `Print build metadata (version, commit, build timestamp) and the installed
distribution version together with the date taken from its YYYYMMDD suffix.

Build metadata is injected during the build process via ldflags. The
distribution version comes from the manifest when configured, otherwise from
the Go build information embedded into the binary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, policy, err := load(cmd)
			if err != nil {
				return err
			}

			return writeVersion(cmd.OutOrStdout(), output, info, policy)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")

	root.AddCommand(cmd)
}

// writeVersion renders info in the requested format.
func writeVersion(w io.Writer, output string, info *Info, policy DatePolicy) error {
	descriptor, err := info.Descriptor(policy)
	if err != nil {
		return err
	}

	switch output {
	case "text", "":
		_, err = fmt.Fprintf(w, "%s\n%s\n", Full(), info)
		if err == nil && descriptor.HasDate() {
			_, err = fmt.Fprintf(w, "release: %s, build date: %s\n", descriptor.ReleaseString(), descriptor.Date())
		}

		return err
	case "yaml":
		var r report

		r.Build.Version = Short()
		r.Build.Commit = Commit
		r.Build.BuildTime = BuildTime
		r.Distribution = info.Distribution
		r.Version = info.Version
		r.Date = info.Date
		r.Release = descriptor.ReleaseString()
		r.BuildDate = descriptor.Date()

		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err = encoder.Encode(&r); err != nil {
			return fmt.Errorf("encode version: %w", err)
		}

		return encoder.Close()
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, output)
	}
}
