package suite

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Outcome is the result of a single case.
type Outcome string

const (
	// OutcomePassed means the case returned nil.
	OutcomePassed Outcome = "passed"
	// OutcomeFailed means the case returned an error or panicked.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the case returned ErrSkip.
	OutcomeSkipped Outcome = "skipped"
)

// Actor identifies who ran the suite.
type Actor struct {
	// Hostname is the machine name where the suite ran.
	Hostname string `yaml:"hostname"`
	// Username is the system user who started the run.
	Username string `yaml:"username"`
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Result describes one executed case.
type Result struct {
	// Name is the case name.
	Name string `yaml:"name"`
	// Outcome is passed, failed or skipped.
	Outcome Outcome `yaml:"outcome"`
	// Error is the failure or skip reason.
	Error string `yaml:"error,omitempty"`
	// Output is the captured log output of the case.
	Output string `yaml:"output,omitempty"`
	// Duration is how long the case took.
	Duration time.Duration `yaml:"duration"`
}

// Report is the outcome of a normal run.
type Report struct {
	// Suite is the suite name.
	Suite string `yaml:"suite"`
	// Version is the version under test.
	Version string `yaml:"version,omitempty"`
	// Actor is who ran the suite.
	Actor *Actor `yaml:"actor,omitempty"`
	// StartedAt is when the run began, in UTC.
	StartedAt time.Time `yaml:"started_at"`
	// Duration is the total run time.
	Duration time.Duration `yaml:"duration"`
	// Results holds one entry per case, in run order.
	Results []Result `yaml:"results"`
}

// Count returns how many results have the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0

	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}

	return n
}

// Failed reports whether any case failed.
func (r *Report) Failed() bool {
	return r.Count(OutcomeFailed) > 0
}

// Err aggregates every failure, or returns nil when all cases passed or were skipped.
func (r *Report) Err() error {
	var merr *multierror.Error

	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			merr = multierror.Append(merr, fmt.Errorf("%s: %s", res.Name, res.Error))
		}
	}

	return merr.ErrorOrNil()
}

// Summary returns a one-line tally.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		r.Count(OutcomePassed), r.Count(OutcomeFailed), r.Count(OutcomeSkipped), r.Duration.Round(time.Millisecond))
}
