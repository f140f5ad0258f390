package journal

import "context"

type scenarioKeyType struct{}

var scenarioKey = scenarioKeyType{}

// WithScenario returns a context carrying the running scenario.
func WithScenario(ctx context.Context, ref Ref) context.Context {
	return context.WithValue(ctx, scenarioKey, ref)
}

// ScenarioFromContext returns the scenario set by WithScenario, if any.
func ScenarioFromContext(ctx context.Context) (Ref, bool) {
	ref, ok := ctx.Value(scenarioKey).(Ref)
	return ref, ok
}
