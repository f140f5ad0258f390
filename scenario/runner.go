package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/sumitdasdk/DRX-pro/journal"
)

// PanicError is the failure of a scenario body that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Runner executes scenarios, each with a freshly opened environment.
type Runner[E Env] struct {
	open    Opener[E]
	options runnerOptions
}

func New[E Env](open Opener[E], opts ...Option) *Runner[E] {
	options := runnerOptions{
		Parallelism: 1,
		StepTail:    20,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Parallelism < 1 {
		options.Parallelism = 1
	}

	return &Runner[E]{open: open, options: options}
}

// Run executes the scenarios and reports one result per scenario that passed the filter,
// in the order given. A cancelled ctx fails the scenarios that have not started yet.
func (r *Runner[E]) Run(ctx context.Context, scenarios Set[E]) Report {
	if r.options.Filter != nil {
		scenarios = lo.Filter(scenarios, func(sc Scenario[E], _ int) bool {
			return r.options.Filter(sc.Name, sc.Tags)
		})
	}

	start := time.Now()
	results := make([]Result, len(scenarios))

	var g errgroup.Group
	g.SetLimit(r.options.Parallelism)
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.RunOne(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return Report{Results: results, Duration: time.Since(start)}
}

// RunOne executes a single scenario.
func (r *Runner[E]) RunOne(ctx context.Context, sc Scenario[E]) Result {
	ref := journal.NewRef(sc.Name)
	ctx = journal.WithScenario(ctx, ref)
	if r.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.options.Timeout)
		defer cancel()
	}

	logger := r.options.Logger.With("scenario", sc.Name)
	logger.DebugContext(ctx, "Starting scenario")

	start := time.Now()
	err := r.execute(ctx, ref, sc)

	result := Result{
		Ref:         ref,
		Name:        sc.Name,
		Description: sc.Description,
		Tags:        sc.Tags,
		Start:       start,
		Duration:    time.Since(start),
		Err:         err,
		Steps:       r.options.Journal.Steps(ref, r.options.StepTail),
	}

	if err != nil {
		logger.ErrorContext(ctx, "Scenario failed", "duration", result.Duration, "err", err)
	} else {
		logger.InfoContext(ctx, "Scenario passed", "duration", result.Duration)
	}
	return result
}

func (r *Runner[E]) execute(ctx context.Context, ref Ref, sc Scenario[E]) (err error) {
	if sc.Run == nil {
		return errors.New("scenario has no body")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("not started: %w", err)
	}

	env, err := r.open(ctx, ref)
	if err != nil {
		return fmt.Errorf("opening environment: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
		if err != nil {
			r.failed(ctx, ref, env, err)
		}
		if cerr := env.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing environment: %w", cerr))
		}
	}()

	return sc.Run(ctx, env)
}

func (r *Runner[E]) failed(ctx context.Context, ref Ref, env Env, err error) {
	if r.options.OnFailure == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.options.Logger.ErrorContext(ctx, "Failure hook panicked", "scenario", ref.Name, "panic", p)
		}
	}()
	r.options.OnFailure(ctx, ref, env, err)
}
