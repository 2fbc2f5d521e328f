package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/objcryst/internal/logger"
)

// ErrSkip marks a case as skipped when returned (or wrapped) by its Func.
var ErrSkip = errors.New("skipped")

// errDuplicateCase is returned by Add for a name that is already registered.
var errDuplicateCase = errors.New("duplicate case")

// Func is the body of a case.
type Func func(ctx context.Context) error

// Case is a single named check.
type Case struct {
	// Name identifies the case, conventionally "<area>/<check>".
	Name string
	// Func performs the check.
	Func Func
}

// Suite is an ordered list of cases.
type Suite struct {
	// name identifies the suite in reports.
	name string
	// cases run in insertion order.
	cases []Case
}

// New creates a suite with the given cases.
func New(name string, cases ...Case) *Suite {
	return &Suite{
		name:  name,
		cases: slices.Clone(cases),
	}
}

// Name returns the suite name.
func (s *Suite) Name() string {
	return s.name
}

// Add appends a case. Names must be unique.
func (s *Suite) Add(name string, fn Func) error {
	for _, c := range s.cases {
		if c.Name == name {
			return fmt.Errorf("%w: %s", errDuplicateCase, name)
		}
	}

	s.cases = append(s.cases, Case{Name: name, Func: fn})

	return nil
}

// Cases returns a copy of the registered cases.
func (s *Suite) Cases() []Case {
	return slices.Clone(s.cases)
}

// Len returns the number of cases.
func (s *Suite) Len() int {
	return len(s.cases)
}

// Filter returns a suite with the cases whose names match any of the glob patterns.
// No patterns selects everything.
func (s *Suite) Filter(patterns ...string) (*Suite, error) {
	if len(patterns) == 0 {
		return New(s.name, s.cases...), nil
	}

	filtered := New(s.name)

	for _, c := range s.cases {
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, c.Name)
			if err != nil {
				return nil, fmt.Errorf("match %q: %w", pattern, err)
			}

			if ok {
				filtered.cases = append(filtered.cases, c)
				break
			}
		}
	}

	return filtered, nil
}

// RunOption customizes a normal run.
type RunOption func(*runOptions)

// runOptions holds the settings of Run.
type runOptions struct {
	// timeout bounds each case when positive.
	timeout time.Duration
	// captureLevel is the minimum level of captured case output.
	captureLevel zapcore.Level
	// actor is recorded in the report.
	actor *Actor
	// version is recorded in the report.
	version string
	// now is the clock, replaced in tests.
	now func() time.Time
}

// WithCaseTimeout bounds every case by timeout.
func WithCaseTimeout(timeout time.Duration) RunOption {
	return func(o *runOptions) {
		o.timeout = timeout
	}
}

// WithCaptureLevel sets the minimum level of captured case output.
func WithCaptureLevel(level zapcore.Level) RunOption {
	return func(o *runOptions) {
		o.captureLevel = level
	}
}

// WithActor records who ran the suite.
func WithActor(actor *Actor) RunOption {
	return func(o *runOptions) {
		o.actor = actor.Clone()
	}
}

// WithVersion records the version under test.
func WithVersion(v string) RunOption {
	return func(o *runOptions) {
		o.version = v
	}
}

// Run executes every case and reports the outcome of each.
// Failures and panics never stop the run.
func (s *Suite) Run(ctx context.Context, opts ...RunOption) *Report {
	//nolint:exhaustruct // Remaining options default to zero.
	options := runOptions{
		captureLevel: zapcore.DebugLevel,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(&options)
	}

	started := options.now()
	report := &Report{
		Suite:     s.name,
		Version:   options.version,
		Actor:     options.actor,
		StartedAt: started.UTC(),
		Results:   make([]Result, 0, len(s.cases)),
	}

	for _, c := range s.cases {
		report.Results = append(report.Results, s.runCase(ctx, c, &options))
	}

	report.Duration = options.now().Sub(started)

	return report
}

// caseOutcome is what a case goroutine hands back to runCase.
type caseOutcome struct {
	// err is the value returned by the case.
	err error
	// panicked is the recovered panic value, nil when the case returned.
	panicked any
	// stack is the goroutine stack at the time of the panic.
	stack []byte
}

// runCase executes one case with capture, timeout and panic recovery.
// The case runs in its own goroutine so a timeout bounds it even when it never
// looks at its context; such a case is abandoned and keeps running until it returns.
func (s *Suite) runCase(ctx context.Context, c Case, options *runOptions) Result {
	caseCtx, captured := logger.CaptureContext(ctx, options.captureLevel)
	caseCtx = logger.WithName(caseCtx, c.Name)

	if options.timeout > 0 {
		var cancel context.CancelFunc

		caseCtx, cancel = context.WithTimeout(caseCtx, options.timeout)
		defer cancel()
	}

	started := options.now()
	done := make(chan caseOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- caseOutcome{panicked: r, stack: debug.Stack()}
			}
		}()

		done <- caseOutcome{err: c.Func(caseCtx)}
	}()

	var outcome caseOutcome

	select {
	case outcome = <-done:
	case <-caseCtx.Done():
		// A case that returned right at the deadline still reports its own result.
		select {
		case outcome = <-done:
		default:
			outcome.err = fmt.Errorf("case abandoned: %w", caseCtx.Err())
		}
	}

	result := Result{
		Name:     c.Name,
		Duration: options.now().Sub(started),
	}

	switch {
	case outcome.panicked != nil:
		result.Outcome = OutcomeFailed
		result.Error = fmt.Sprintf("panic: %v\n%s", outcome.panicked, outcome.stack)
	case outcome.err == nil:
		result.Outcome = OutcomePassed
	case errors.Is(outcome.err, ErrSkip):
		result.Outcome = OutcomeSkipped
		result.Error = outcome.err.Error()
	default:
		result.Outcome = OutcomeFailed
		result.Error = outcome.err.Error()
	}

	result.Output = captured.String()

	return result
}

// Debug runs the cases in order and returns the first failure, wrapped with the
// case name and a stack trace. Panics raised by a case are not recovered.
func (s *Suite) Debug(ctx context.Context) error {
	for _, c := range s.cases {
		caseCtx := logger.WithName(ctx, c.Name)

		logger.DebugKV(caseCtx, "Running case")

		err := c.Func(caseCtx)

		switch {
		case err == nil:
		case errors.Is(err, ErrSkip):
			logger.InfoKV(caseCtx, "Case skipped", "reason", err.Error())
		default:
			return pkgerrors.Wrapf(err, "suite %s: case %s", s.name, c.Name)
		}
	}

	return nil
}
