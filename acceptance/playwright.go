//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/journal"
)

// PlaywrightFixture manages the browser shared by the sessions of one test.
// Set HEADLESS=false environment variable to run with visible browser for debugging.
type PlaywrightFixture struct {
	Driver *browser.Driver
}

func NewPlaywrightFixture(t *testing.T) *PlaywrightFixture {
	t.Helper()

	d, err := browser.Launch(browser.DriverOptions{})
	require.NoError(t, err, "failed to launch browser")

	return &PlaywrightFixture{Driver: d}
}

// NewSession creates a session with isolated cookies and storage, attributed to name in the app's journal.
func (pf *PlaywrightFixture) NewSession(t *testing.T, ctx context.Context, app *TestApp, name string) *browser.Session {
	t.Helper()

	s, err := pf.Driver.NewSession(ctx, browser.SessionOptions{
		Ref:               journal.NewRef(name),
		Journal:           app.Journal,
		Logger:            app.Logger,
		BaseURL:           app.AppURL,
		NavigationTimeout: app.Data.Timeout("navigation"),
	})
	require.NoError(t, err, "failed to create browser session")
	return s
}

// Close releases all browser resources.
func (pf *PlaywrightFixture) Close() {
	_ = pf.Driver.Close()
}
