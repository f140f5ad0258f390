package scenario

import (
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/sumitdasdk/DRX-pro/journal"
)

// Result is the outcome of one scenario run.
type Result struct {
	Ref         Ref
	Name        string
	Description string
	Tags        []string
	Start       time.Time
	Duration    time.Duration
	// Err is nil for a passed scenario.
	Err error
	// Steps are the last journal steps of the run, oldest first.
	Steps []journal.Step
}

func (r Result) Passed() bool {
	return r.Err == nil
}

// FailedCheck returns the name of the failed assertion, or "" when the scenario
// passed or failed with a propagated error.
func (r Result) FailedCheck() string {
	var ae *AssertionError
	if errors.As(r.Err, &ae) {
		return ae.Check
	}
	return ""
}

// Report aggregates the results of a suite run.
type Report struct {
	Results  []Result
	Duration time.Duration
}

func (r Report) Passed() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool { return res.Passed() })
}

func (r Report) Failed() []Result {
	return lo.Reject(r.Results, func(res Result, _ int) bool { return res.Passed() })
}

// OK reports whether every scenario passed.
func (r Report) OK() bool {
	return lo.EveryBy(r.Results, func(res Result) bool { return res.Passed() })
}

// ExitCode is 0 if every scenario passed and 1 otherwise.
func (r Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}
