package selftest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/objcryst/internal/config"
	"github.com/oshokin/objcryst/internal/domain/suite"
)

// errUnknownOutput is returned for unsupported report formats.
var errUnknownOutput = errors.New("unknown report output")

// render writes the report in the requested format.
func render(w io.Writer, format string, r *suite.Report) error {
	switch format {
	case config.OutputText, "":
		return renderText(w, r, isTerminal(w))
	case config.OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return encoder.Close()
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, format)
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderText prints one line per case, details for failures and a summary.
func renderText(w io.Writer, r *suite.Report, colored bool) error {
	labels := map[suite.Outcome]*color.Color{
		suite.OutcomePassed:  color.New(color.FgGreen),
		suite.OutcomeFailed:  color.New(color.FgRed, color.Bold),
		suite.OutcomeSkipped: color.New(color.FgYellow),
	}

	for _, c := range labels {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "suite %s", r.Suite)

	if r.Version != "" {
		fmt.Fprintf(&b, ", version %s", r.Version)
	}

	if r.Actor != nil {
		fmt.Fprintf(&b, ", run by %s@%s", r.Actor.Username, r.Actor.Hostname)
	}

	b.WriteString("\n")

	for _, res := range r.Results {
		label := strings.ToUpper(string(res.Outcome))
		if c, ok := labels[res.Outcome]; ok {
			label = c.Sprint(label)
		}

		fmt.Fprintf(&b, "%s %s (%s)\n", label, res.Name, res.Duration)

		if res.Outcome == suite.OutcomePassed {
			continue
		}

		if res.Error != "" {
			fmt.Fprintf(&b, "    %s\n", indent(res.Error))
		}

		if res.Outcome == suite.OutcomeFailed && res.Output != "" {
			fmt.Fprintf(&b, "    output:\n    %s\n", indent(strings.TrimRight(res.Output, "\n")))
		}
	}

	b.WriteString(r.Summary())
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())

	return err
}

// indent prefixes continuation lines so multi-line details stay under their case.
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
