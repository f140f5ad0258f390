package scenario_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/journal"
	"github.com/sumitdasdk/DRX-pro/scenario"
)

type fakeEnv struct {
	ref      scenario.Ref
	closes   atomic.Int32
	closeErr error
}

func (e *fakeEnv) Close() error {
	e.closes.Add(1)
	return e.closeErr
}

type opener struct {
	mu   sync.Mutex
	envs []*fakeEnv
	err  error
}

func (o *opener) open(_ context.Context, ref scenario.Ref) (*fakeEnv, error) {
	if o.err != nil {
		return nil, o.err
	}
	env := &fakeEnv{ref: ref}
	o.mu.Lock()
	o.envs = append(o.envs, env)
	o.mu.Unlock()
	return env, nil
}

func TestRunner_TeardownExactlyOnce(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		run     func(ctx context.Context, env *fakeEnv) error
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "return",
			run:  func(context.Context, *fakeEnv) error { return nil },
			wantErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "early return after check",
			run: func(context.Context, *fakeEnv) error {
				if err := scenario.Check(false, "visible"); err != nil {
					return err
				}
				panic("not reached")
			},
			wantErr: func(t *testing.T, err error) {
				var ae *scenario.AssertionError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, "visible", ae.Check)
			},
		},
		{
			name: "error",
			run:  func(context.Context, *fakeEnv) error { return boom },
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, boom)
			},
		},
		{
			name: "panic",
			run:  func(context.Context, *fakeEnv) error { panic("kaputt") },
			wantErr: func(t *testing.T, err error) {
				var pe *scenario.PanicError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, "kaputt", pe.Value)
				assert.NotEmpty(t, pe.Stack)
			},
		},
		{
			name: "timeout",
			run: func(ctx context.Context, _ *fakeEnv) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, context.DeadlineExceeded)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &opener{}
			r := scenario.New(o.open, scenario.WithTimeout(50*time.Millisecond))

			result := r.RunOne(context.Background(), scenario.Scenario[*fakeEnv]{Name: "TC-" + tt.name, Run: tt.run})

			tt.wantErr(t, result.Err)
			require.Len(t, o.envs, 1)
			assert.Equal(t, int32(1), o.envs[0].closes.Load())
			assert.Equal(t, "TC-"+tt.name, o.envs[0].ref.Name)
		})
	}
}

func TestRunner_OpenFailure(t *testing.T) {
	o := &opener{err: errors.New("no browser")}
	r := scenario.New(o.open)

	ran := false
	result := r.RunOne(context.Background(), scenario.Scenario[*fakeEnv]{
		Name: "TC-001",
		Run: func(context.Context, *fakeEnv) error {
			ran = true
			return nil
		},
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "opening environment")
	assert.False(t, ran)
	assert.Empty(t, o.envs)
}

func TestRunner_CloseErrorFailsScenario(t *testing.T) {
	closeErr := errors.New("context already gone")
	r := scenario.New(func(context.Context, scenario.Ref) (*fakeEnv, error) {
		return &fakeEnv{closeErr: closeErr}, nil
	})

	result := r.RunOne(context.Background(), scenario.Scenario[*fakeEnv]{
		Name: "TC-001",
		Run:  func(context.Context, *fakeEnv) error { return nil },
	})

	assert.ErrorIs(t, result.Err, closeErr)
}

func TestRunner_FailureHookBeforeClose(t *testing.T) {
	o := &opener{}
	var closesSeen int32 = -1
	var hookErr error

	r := scenario.New(o.open, scenario.WithFailureHook(func(_ context.Context, _ scenario.Ref, env scenario.Env, err error) {
		closesSeen = env.(*fakeEnv).closes.Load()
		hookErr = err
	}))

	result := r.RunOne(context.Background(), scenario.Scenario[*fakeEnv]{
		Name: "TC-RX-PAGE-07",
		Run: func(context.Context, *fakeEnv) error {
			return scenario.Check(false, "saved", "toast %q missing", "Prescription saved")
		},
	})

	require.Error(t, result.Err)
	assert.Equal(t, int32(0), closesSeen, "hook runs while the environment is open")
	assert.Equal(t, result.Err, hookErr)
	assert.Equal(t, int32(1), o.envs[0].closes.Load())
	assert.Equal(t, "saved", result.FailedCheck())
	assert.Equal(t, `check "saved" failed: toast "Prescription saved" missing`, result.Err.Error())
}

func TestRunner_PanickingHookStillCloses(t *testing.T) {
	o := &opener{}
	r := scenario.New(o.open, scenario.WithFailureHook(func(context.Context, scenario.Ref, scenario.Env, error) {
		panic("hook")
	}))

	result := r.RunOne(context.Background(), scenario.Scenario[*fakeEnv]{
		Name: "TC-001",
		Run:  func(context.Context, *fakeEnv) error { return errors.New("failed") },
	})

	assert.Error(t, result.Err)
	assert.Equal(t, int32(1), o.envs[0].closes.Load())
}

func TestRunner_ParallelIsolation(t *testing.T) {
	o := &opener{}
	var running, peak atomic.Int32

	r := scenario.New(o.open, scenario.WithParallelism(3))

	var set scenario.Set[*fakeEnv]
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		set = append(set, scenario.Scenario[*fakeEnv]{
			Name: name,
			Run: func(_ context.Context, env *fakeEnv) error {
				n := running.Add(1)
				defer running.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				return scenario.Check(env.ref.Name == name, "own environment")
			},
		})
	}

	report := r.Run(context.Background(), set)

	require.Len(t, report.Results, 6)
	assert.True(t, report.OK())
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, res := range report.Results {
		assert.Equal(t, set[i].Name, res.Name, "results keep input order")
	}
	require.Len(t, o.envs, 6)
	for _, env := range o.envs {
		assert.Equal(t, int32(1), env.closes.Load())
	}
}

func TestRunner_FilterAndReport(t *testing.T) {
	o := &opener{}
	r := scenario.New(o.open, scenario.WithFilter(func(_ string, tags []string) bool {
		for _, tag := range tags {
			if tag == "smoke" {
				return true
			}
		}
		return false
	}))

	set := scenario.Set[*fakeEnv]{
		{Name: "pass", Tags: []string{"smoke"}, Run: func(context.Context, *fakeEnv) error { return nil }},
		{Name: "fail", Tags: []string{"smoke"}, Run: func(context.Context, *fakeEnv) error { return errors.New("x") }},
		{Name: "skipped", Run: func(context.Context, *fakeEnv) error { return nil }},
	}

	report := r.Run(context.Background(), set)

	require.Len(t, report.Results, 2)
	assert.Len(t, report.Passed(), 1)
	assert.Len(t, report.Failed(), 1)
	assert.Equal(t, "fail", report.Failed()[0].Name)
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.ExitCode())

	assert.Equal(t, 0, scenario.Report{}.ExitCode())
}

func TestRunner_CancelledContextSkipsOpen(t *testing.T) {
	o := &opener{}
	r := scenario.New(o.open)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.RunOne(ctx, scenario.Scenario[*fakeEnv]{Name: "late", Run: func(context.Context, *fakeEnv) error { return nil }})

	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Empty(t, o.envs)
}

func TestRunner_JournalStepsAttached(t *testing.T) {
	j := journal.New()
	defer j.Close()

	r := scenario.New(func(context.Context, scenario.Ref) (*fakeEnv, error) { return &fakeEnv{}, nil },
		scenario.WithJournal(j, 2))

	result := r.RunOne(context.Background(), scenario.Scenario[*fakeEnv]{
		Name: "TC-H-PAGE-01",
		Run: func(ctx context.Context, _ *fakeEnv) error {
			ref, ok := journal.ScenarioFromContext(ctx)
			if !ok {
				return errors.New("no scenario in context")
			}
			for _, op := range []string{"navigate", "click", "wait-url"} {
				j.Record(journal.Step{Scenario: ref, Op: op})
			}
			return nil
		},
	})

	require.NoError(t, result.Err)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "click", result.Steps[0].Op)
	assert.Equal(t, "wait-url", result.Steps[1].Op)
}

func TestRunner_NilBody(t *testing.T) {
	o := &opener{}
	result := scenario.New(o.open).RunOne(context.Background(), scenario.Scenario[*fakeEnv]{Name: "empty"})

	assert.Error(t, result.Err)
	assert.Empty(t, o.envs)
}
