//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"testing"
	"time"

	"github.com/sumitdasdk/DRX-pro/fixture"
	"github.com/sumitdasdk/DRX-pro/rxapp"
	"github.com/sumitdasdk/DRX-pro/scenarios"
)

// TestFixtures bundles all commonly needed test fixtures.
type TestFixtures struct {
	App *TestApp
	PW  *PlaywrightFixture
	Env *scenarios.Env
	Ctx context.Context
}

// WithTestFixtures creates all fixtures, registers cleanup with t.Cleanup(), and calls the test function.
// The options configure the reference application.
func WithTestFixtures(t *testing.T, fn func(t *testing.T, f *TestFixtures), opts ...rxapp.HandlerOption) {
	t.Helper()

	app := NewTestApp(t, opts...)
	t.Cleanup(func() { app.Close() })

	pw := NewPlaywrightFixture(t)
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	session := pw.NewSession(t, ctx, app, t.Name())
	t.Cleanup(func() { _ = session.Close() })

	env := scenarios.NewEnv(session, app.Data, fixture.NewNamer(fixture.WithCollisionGuard()), app.Logger)

	fn(t, &TestFixtures{
		App: app,
		PW:  pw,
		Env: env,
		Ctx: ctx,
	})
}

// WithTestApp creates only the test app fixture (useful when custom browser setup is needed).
// The callback receives the test app and playwright fixture, allowing custom session creation.
func WithTestApp(t *testing.T, fn func(t *testing.T, app *TestApp, pw *PlaywrightFixture), opts ...rxapp.HandlerOption) {
	t.Helper()

	app := NewTestApp(t, opts...)
	t.Cleanup(func() { app.Close() })

	pw := NewPlaywrightFixture(t)
	t.Cleanup(func() { pw.Close() })

	fn(t, app, pw)
}
