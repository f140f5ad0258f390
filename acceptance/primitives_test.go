//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/rxapp"
)

func TestSession_SoftQueryReturnsFalseWithinTimeout(t *testing.T) {
	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Env.Session
		require.NoError(t, s.Navigate(f.Ctx, f.App.AppURL))

		start := time.Now()
		visible, err := s.IsVisible(f.Ctx, s.ByRole(*playwright.AriaRoleButton, "Never There", true), 500*time.Millisecond)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.False(t, visible)
		assert.Less(t, elapsed, 3*time.Second)
	})
}

func TestSession_ActionOnMissingElementFailsWithinTimeout(t *testing.T) {
	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Env.Session
		require.NoError(t, s.Navigate(f.Ctx, f.App.AppURL))

		start := time.Now()
		err := s.ClickWithin(f.Ctx, s.ByRole(*playwright.AriaRoleButton, "Never There", true), 500*time.Millisecond)
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.ErrorIs(t, err, browser.ErrElementTimeout)
		assert.Less(t, elapsed, 3*time.Second)

		var actionErr *browser.ActionError
		require.True(t, errors.As(err, &actionErr))
		assert.Equal(t, "click", actionErr.Op)

		failures := f.App.Journal.Failures()
		require.NotEmpty(t, failures)
		assert.Equal(t, "click", failures[len(failures)-1].Op)
		assert.Equal(t, s.Ref(), failures[len(failures)-1].Scenario)
	})
}

func TestSession_WaitURLTimesOut(t *testing.T) {
	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Env.Session
		require.NoError(t, s.Navigate(f.Ctx, f.App.AppURL))

		err := s.WaitURL(f.Ctx, "**/never/**", 500*time.Millisecond)

		assert.ErrorIs(t, err, browser.ErrNavigationTimeout)
	})
}

func TestSession_ContextDeadlineCapsTimeout(t *testing.T) {
	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Env.Session
		require.NoError(t, s.Navigate(f.Ctx, f.App.AppURL))

		ctx, cancel := context.WithTimeout(f.Ctx, 300*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := s.ClickWithin(ctx, s.ByRole(*playwright.AriaRoleButton, "Never There", true), time.Minute)

		assert.ErrorIs(t, err, browser.ErrElementTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestSession_ClosedSession(t *testing.T) {
	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		s := f.Env.Session
		require.NoError(t, s.Close())
		require.NoError(t, s.Close(), "second close is a no-op")

		err := s.Click(f.Ctx, s.ByRole(*playwright.AriaRoleButton, "Login", false))
		assert.ErrorIs(t, err, browser.ErrSessionClosed)

		visible, err := s.IsVisible(f.Ctx, s.ByRole(*playwright.AriaRoleButton, "Login", false), time.Second)
		assert.False(t, visible)
		assert.ErrorIs(t, err, browser.ErrSessionClosed, "a broken session is not reported as absent")
		assert.Empty(t, s.URL())
	})
}

func TestRx_AddPatientAppearsLate(t *testing.T) {
	WithTestFixtures(t, func(t *testing.T, f *TestFixtures) {
		env := f.Env
		require.NoError(t, env.Login.OpenAndSignIn(f.Ctx))

		// The default budget is enough for a button revealed after two seconds
		visible, err := env.Rx.AddPatientVisible(f.Ctx)
		require.NoError(t, err)
		assert.True(t, visible)

		require.NoError(t, env.Rx.ClickAddPatient(f.Ctx))
		assert.True(t, env.Rx.IsOnRxPage())
	}, rxapp.WithAddPatientDelay(2*time.Second))
}
