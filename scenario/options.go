package scenario

import (
	"context"
	"log/slog"
	"time"

	"github.com/sumitdasdk/DRX-pro/journal"
)

// FailureHook is called for a failed scenario before its environment is closed,
// so the environment can still be inspected (e.g. for a screenshot).
type FailureHook func(ctx context.Context, ref Ref, env Env, err error)

// runnerOptions holds configuration for a Runner.
// This is unexported; use Option functions to configure.
type runnerOptions struct {
	// Parallelism is the number of scenarios running at once.
	Parallelism int
	// Timeout bounds every scenario including opening its environment (0 = none).
	Timeout time.Duration
	Logger  *slog.Logger
	Journal *journal.Journal
	// StepTail is the number of journal steps attached to each result.
	StepTail  int
	OnFailure FailureHook
	Filter    func(name string, tags []string) bool
}

type Option func(*runnerOptions)

// WithParallelism sets how many scenarios run concurrently.
// Default is 1, running scenarios one after the other.
func WithParallelism(n int) Option {
	return func(o *runnerOptions) {
		o.Parallelism = n
	}
}

// WithTimeout bounds each scenario run. Default is no bound beyond the primitives' own timeouts.
func WithTimeout(d time.Duration) Option {
	return func(o *runnerOptions) {
		o.Timeout = d
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *runnerOptions) {
		o.Logger = logger
	}
}

// WithJournal attaches the last steps recorded for each scenario to its result.
func WithJournal(j *journal.Journal, tail int) Option {
	return func(o *runnerOptions) {
		o.Journal = j
		o.StepTail = tail
	}
}

// WithFailureHook registers fn to run for every failed scenario.
func WithFailureHook(fn FailureHook) Option {
	return func(o *runnerOptions) {
		o.OnFailure = fn
	}
}

// WithFilter skips scenarios for which fn returns false.
func WithFilter(fn func(name string, tags []string) bool) Option {
	return func(o *runnerOptions) {
		o.Filter = fn
	}
}
