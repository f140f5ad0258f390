package journal

import (
	"context"
	"log/slog"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"
)

// ScenarioAttrKey is the log attribute carrying the scenario name of a captured record.
const ScenarioAttrKey = "scenario"

// scenarioIDAttrKey carries the run id so records can be attributed to one run.
const scenarioIDAttrKey = "scenario_id"

// Journal keeps the most recent steps and log records of a suite run.
// It is safe for concurrent use by scenarios running in parallel.
type Journal struct {
	steps *Ring[Step]
	logs  *Ring[slog.Record]

	notifier *Notifier[Step]
}

type Options struct {
	// StepCapacity is the number of steps retained. Defaults to 10000.
	StepCapacity uint64
	// LogCapacity is the number of log records retained. Defaults to 1000.
	LogCapacity uint64
	// SubscriberBuffer is the per-subscriber buffer of SubscribeSteps. Defaults to DefaultSubscriberBuffer.
	SubscriberBuffer int
}

func New() *Journal {
	return NewWithOptions(Options{})
}

func NewWithOptions(options Options) *Journal {
	if options.StepCapacity == 0 {
		options.StepCapacity = 10000
	}
	if options.LogCapacity == 0 {
		options.LogCapacity = 1000
	}

	return &Journal{
		steps:    NewRing[Step](options.StepCapacity),
		logs:     NewRing[slog.Record](options.LogCapacity),
		notifier: NewNotifier[Step](options.SubscriberBuffer),
	}
}

// Record stores a step. A nil journal discards it.
func (j *Journal) Record(step Step) {
	if j == nil {
		return
	}
	if step.ID == uuid.Nil {
		step.ID = uuid.Must(uuid.NewV7())
	}
	j.steps.Push(step)
	j.notifier.Notify(step)
}

// Steps returns up to n of the most recent steps of one scenario run, oldest first.
func (j *Journal) Steps(ref Ref, n int) []Step {
	if j == nil || n <= 0 {
		return nil
	}
	steps := lo.Filter(j.steps.All(), func(s Step, _ int) bool {
		return s.Scenario.ID == ref.ID
	})
	if len(steps) > n {
		steps = steps[len(steps)-n:]
	}
	return steps
}

// Failures returns every retained failed step, oldest first.
func (j *Journal) Failures() []Step {
	if j == nil {
		return nil
	}
	return lo.Filter(j.steps.All(), func(s Step, _ int) bool {
		return s.Failed()
	})
}

func (j *Journal) collect(record slog.Record) {
	j.logs.Push(record)
}

// Logs returns up to n of the most recent log records. With a non-zero ref only records
// captured while that scenario ran are returned.
func (j *Journal) Logs(ref Ref, n int) []slog.Record {
	if j == nil || n <= 0 {
		return nil
	}
	records := j.logs.All()
	if !ref.IsZero() {
		id := ref.ID.String()
		records = lo.Filter(records, func(r slog.Record, _ int) bool {
			var match bool
			r.Attrs(func(a slog.Attr) bool {
				if a.Key == scenarioIDAttrKey {
					match = a.Value.String() == id
					return false
				}
				return true
			})
			return match
		})
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	return records
}

// SubscribeSteps streams steps recorded after the call until ctx is done or the journal is closed.
func (j *Journal) SubscribeSteps(ctx context.Context) <-chan Step {
	return j.notifier.Subscribe(ctx)
}

// Close ends all subscriptions.
func (j *Journal) Close() {
	j.notifier.Close()
}
