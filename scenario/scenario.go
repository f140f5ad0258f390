// Package scenario runs named end-to-end checks, each in its own environment.
//
// A Runner opens one environment per scenario, runs the scenario body and closes the
// environment exactly once on every exit path, including panics and timeouts.
package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/sumitdasdk/DRX-pro/journal"
)

// Ref identifies one run of one scenario.
type Ref = journal.Ref

// Env is the per-scenario environment a Runner acquires and releases.
type Env interface {
	Close() error
}

// Opener acquires the environment for one scenario run.
type Opener[E Env] func(ctx context.Context, ref Ref) (E, error)

// Scenario is one independently runnable check identified by a stable name.
type Scenario[E Env] struct {
	Name        string
	Description string
	Tags        []string
	Run         func(ctx context.Context, env E) error
}

func (s Scenario[E]) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// Set is an ordered collection of scenarios with unique names.
type Set[E Env] []Scenario[E]

// Names returns the scenario names in order.
func (s Set[E]) Names() []string {
	names := make([]string, len(s))
	for i, sc := range s {
		names[i] = sc.Name
	}
	return names
}

func (s Set[E]) Lookup(name string) (Scenario[E], bool) {
	i := slices.IndexFunc(s, func(sc Scenario[E]) bool { return sc.Name == name })
	if i < 0 {
		return Scenario[E]{}, false
	}
	return s[i], true
}

// Select returns the named scenarios in the order given. No names selects the whole set.
func (s Set[E]) Select(names ...string) (Set[E], error) {
	if len(names) == 0 {
		return s, nil
	}
	selected := make(Set[E], 0, len(names))
	for _, name := range names {
		sc, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, sc)
	}
	return selected, nil
}

// Tagged returns the scenarios carrying at least one of tags, in set order.
func (s Set[E]) Tagged(tags ...string) Set[E] {
	return lo.Filter(s, func(sc Scenario[E], _ int) bool {
		return slices.ContainsFunc(tags, sc.HasTag)
	})
}
