package journal

import (
	"context"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

type HandlerOptions struct {
	// Level is the minimum level of records to capture.
	Level slog.Leveler
}

// Handler is a slog.Handler that captures records into a Journal.
// Records logged with a context from WithScenario are tagged with that scenario.
type Handler struct {
	journal *Journal
	options HandlerOptions

	attrs  []slog.Attr
	groups []string
}

func NewHandler(j *Journal, options HandlerOptions) *Handler {
	if options.Level == nil {
		options.Level = slog.LevelInfo
	}
	return &Handler{
		journal: j,
		options: options,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.options.Level.Level() <= level
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	// Handler attributes must precede the record's own, so the record is rebuilt.
	captured := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	if ref, ok := ScenarioFromContext(ctx); ok {
		captured.AddAttrs(
			slog.String(ScenarioAttrKey, ref.Name),
			slog.String(scenarioIDAttrKey, ref.ID.String()),
		)
	}
	captured.AddAttrs(h.attrs...)

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	// Nest record attributes into the open groups, innermost first.
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{
			slog.Group(h.groups[i], lo.ToAnySlice(attrs)...),
		}
	}
	captured.AddAttrs(attrs...)

	h.journal.collect(captured)

	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		journal: h.journal,
		options: h.options,

		attrs:  appendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups: h.groups,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &Handler{
		journal: h.journal,
		options: h.options,

		attrs:  h.attrs,
		groups: append(slices.Clip(h.groups), name),
	}
}

// appendAttrsToGroup adds newAttrs below the nested group path, creating groups as needed.
func appendAttrsToGroup(groups []string, actualAttrs []slog.Attr, newAttrs ...slog.Attr) []slog.Attr {
	actualAttrs = slices.Clone(actualAttrs)

	if len(groups) == 0 {
		return append(actualAttrs, newAttrs...)
	}

	for i := range actualAttrs {
		attr := actualAttrs[i]
		if attr.Key == groups[0] && attr.Value.Kind() == slog.KindGroup {
			actualAttrs[i] = slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], attr.Value.Group(), newAttrs...))...)
			return actualAttrs
		}
	}

	return append(
		actualAttrs,
		slog.Group(
			groups[0],
			lo.ToAnySlice(appendAttrsToGroup(groups[1:], []slog.Attr{}, newAttrs...))...,
		),
	)
}
