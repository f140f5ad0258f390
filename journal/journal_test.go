package journal_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/journal"
)

func TestJournal_StepsPerScenario(t *testing.T) {
	j := journal.New()
	defer j.Close()

	a := journal.NewRef("TC-001")
	b := journal.NewRef("TC-002")

	for i := range 5 {
		j.Record(journal.Step{Scenario: a, Op: "click", Target: string(rune('a' + i))})
	}
	j.Record(journal.Step{Scenario: b, Op: "fill", Err: "element timeout"})

	steps := j.Steps(a, 3)
	require.Len(t, steps, 3)
	assert.Equal(t, []string{"c", "d", "e"}, []string{steps[0].Target, steps[1].Target, steps[2].Target})
	for _, s := range steps {
		assert.NotEqual(t, uuid.Nil, s.ID, "ids are assigned on record")
	}

	assert.Len(t, j.Steps(b, 10), 1)
	assert.Empty(t, j.Steps(journal.NewRef("TC-003"), 10))

	failures := j.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "fill", failures[0].Op)
}

func TestJournal_NilDiscards(t *testing.T) {
	var j *journal.Journal

	assert.NotPanics(t, func() {
		j.Record(journal.Step{Op: "click"})
	})
	assert.Nil(t, j.Steps(journal.NewRef("x"), 10))
	assert.Nil(t, j.Logs(journal.Ref{}, 10))
}

func TestJournal_SubscribeSteps(t *testing.T) {
	j := journal.New()
	defer j.Close()

	c := journal.Collect(t, j.SubscribeSteps)

	ref := journal.NewRef("TC-P01")
	j.Record(journal.Step{Scenario: ref, Op: "navigate"})
	j.Record(journal.Step{Scenario: ref, Op: "click"})

	steps := c.Wait(2)
	assert.Equal(t, "navigate", steps[0].Op)
	assert.Equal(t, "click", steps[1].Op)
}

func TestStep_Duration(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := journal.Step{Start: start, End: start.Add(1500 * time.Millisecond)}

	assert.Equal(t, 1500*time.Millisecond, s.Duration())
	assert.False(t, s.Failed())
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "plain", journal.Ref{Name: "plain"}.String())

	ref := journal.NewRef("TC-001")
	assert.Regexp(t, `^TC-001#[0-9a-f]{8}$`, ref.String())
	assert.False(t, ref.IsZero())
}

func TestHandler_CapturesWithScenario(t *testing.T) {
	j := journal.New()
	defer j.Close()

	logger := slog.New(journal.NewHandler(j, journal.HandlerOptions{Level: slog.LevelDebug}))

	ref := journal.NewRef("TC-RX-PAGE-07")
	ctx := journal.WithScenario(context.Background(), ref)

	logger.InfoContext(ctx, "saving prescription", "patient", "RxSavePatient_101010")
	logger.Info("outside any scenario")

	all := j.Logs(journal.Ref{}, 10)
	require.Len(t, all, 2)

	scoped := j.Logs(ref, 10)
	require.Len(t, scoped, 1)
	assert.Equal(t, "saving prescription", scoped[0].Message)

	attrs := map[string]string{}
	scoped[0].Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	assert.Equal(t, "TC-RX-PAGE-07", attrs[journal.ScenarioAttrKey])
	assert.Equal(t, "RxSavePatient_101010", attrs["patient"])
}

func TestHandler_Level(t *testing.T) {
	j := journal.New()
	defer j.Close()

	logger := slog.New(journal.NewHandler(j, journal.HandlerOptions{Level: slog.LevelWarn}))
	logger.Info("dropped")
	logger.Warn("kept")

	logs := j.Logs(journal.Ref{}, 10)
	require.Len(t, logs, 1)
	assert.Equal(t, "kept", logs[0].Message)
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	j := journal.New()
	defer j.Close()

	logger := slog.New(journal.NewHandler(j, journal.HandlerOptions{})).
		With("suite", "drx").
		WithGroup("page").
		With("name", "history")

	logger.Info("opened", "rows", 3)

	logs := j.Logs(journal.Ref{}, 1)
	require.Len(t, logs, 1)

	var keys []string
	var page []slog.Attr
	logs[0].Attrs(func(a slog.Attr) bool {
		keys = append(keys, a.Key)
		if a.Key == "page" {
			page = append(page, a.Value.Group()...)
		}
		return true
	})

	assert.Contains(t, keys, "suite")
	assert.Contains(t, keys, "page")

	var pageKeys []string
	for _, a := range page {
		pageKeys = append(pageKeys, a.Key)
	}
	assert.Contains(t, pageKeys, "name")
	assert.Contains(t, pageKeys, "rows")
}
