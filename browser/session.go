package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/sumitdasdk/DRX-pro/journal"
)

// Default budgets of the primitives when the caller does not pass one.
const (
	DefaultFillTimeout       = 10 * time.Second
	DefaultClickTimeout      = 15 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultReadTimeout       = 5 * time.Second
)

// SessionOptions configures a new Session. Zero values select the defaults.
type SessionOptions struct {
	// Ref attributes journal steps to a scenario run.
	Ref journal.Ref
	// Journal receives one step per primitive. Nil disables recording.
	Journal *journal.Journal
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// BaseURL resolves relative navigation targets.
	BaseURL string
	// ViewportWidth and ViewportHeight default to the engine's viewport.
	ViewportWidth  int
	ViewportHeight int

	FillTimeout       time.Duration
	ClickTimeout      time.Duration
	NavigationTimeout time.Duration
}

// Session is one isolated browser context with a single page, owned by one scenario.
// It is not safe for concurrent use.
type Session struct {
	bctx playwright.BrowserContext
	page playwright.Page

	ref     journal.Ref
	journal *journal.Journal
	logger  *slog.Logger

	fillTimeout       time.Duration
	clickTimeout      time.Duration
	navigationTimeout time.Duration

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newSession(bctx playwright.BrowserContext, page playwright.Page, options SessionOptions) *Session {
	s := &Session{
		bctx:              bctx,
		page:              page,
		ref:               options.Ref,
		journal:           options.Journal,
		logger:            options.Logger,
		fillTimeout:       options.FillTimeout,
		clickTimeout:      options.ClickTimeout,
		navigationTimeout: options.NavigationTimeout,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.fillTimeout <= 0 {
		s.fillTimeout = DefaultFillTimeout
	}
	if s.clickTimeout <= 0 {
		s.clickTimeout = DefaultClickTimeout
	}
	if s.navigationTimeout <= 0 {
		s.navigationTimeout = DefaultNavigationTimeout
	}
	return s
}

// Ref returns the scenario run the session belongs to.
func (s *Session) Ref() journal.Ref {
	return s.ref
}

// Navigate loads url and waits for DOMContentLoaded.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.step(ctx, "navigate", url, func() error {
		timeout, err := budget(ctx, s.navigationTimeout)
		if err != nil {
			return actionError("navigate", url, ErrNavigationTimeout, err)
		}
		_, err = s.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   millis(timeout),
		})
		return actionError("navigate", url, ErrNavigationTimeout, err)
	})
}

// Fill waits for loc to be visible and replaces its value.
func (s *Session) Fill(ctx context.Context, loc Locator, value string) error {
	return s.FillWithin(ctx, loc, value, s.fillTimeout)
}

func (s *Session) FillWithin(ctx context.Context, loc Locator, value string, timeout time.Duration) error {
	return s.step(ctx, "fill", loc.desc, func() error {
		t, err := s.visible(ctx, loc, timeout)
		if err != nil {
			return actionError("fill", loc.desc, ErrElementTimeout, err)
		}
		err = loc.loc.Fill(value, playwright.LocatorFillOptions{Timeout: millis(t)})
		return actionError("fill", loc.desc, ErrElementTimeout, err)
	})
}

// Click waits for loc to be visible and clicks it.
func (s *Session) Click(ctx context.Context, loc Locator) error {
	return s.ClickWithin(ctx, loc, s.clickTimeout)
}

func (s *Session) ClickWithin(ctx context.Context, loc Locator, timeout time.Duration) error {
	return s.step(ctx, "click", loc.desc, func() error {
		t, err := s.visible(ctx, loc, timeout)
		if err != nil {
			return actionError("click", loc.desc, ErrElementTimeout, err)
		}
		err = loc.loc.Click(playwright.LocatorClickOptions{Timeout: millis(t)})
		return actionError("click", loc.desc, ErrElementTimeout, err)
	})
}

// WaitVisible blocks until loc is visible. A timeout yields ErrElementTimeout.
func (s *Session) WaitVisible(ctx context.Context, loc Locator, timeout time.Duration) error {
	return s.step(ctx, "wait-visible", loc.desc, func() error {
		_, err := s.visible(ctx, loc, timeout)
		return actionError("wait-visible", loc.desc, ErrElementTimeout, err)
	})
}

// IsVisible is WaitVisible passed through Soft.
func (s *Session) IsVisible(ctx context.Context, loc Locator, timeout time.Duration) (bool, error) {
	return Soft(s.WaitVisible(ctx, loc, timeout))
}

// WaitURL blocks until the page URL matches a glob pattern. A timeout yields ErrNavigationTimeout.
func (s *Session) WaitURL(ctx context.Context, pattern string, timeout time.Duration) error {
	return s.step(ctx, "wait-url", pattern, func() error {
		t, err := budget(ctx, timeout)
		if err != nil {
			return actionError("wait-url", pattern, ErrNavigationTimeout, err)
		}
		err = s.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{
			Timeout:   millis(t),
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		return actionError("wait-url", pattern, ErrNavigationTimeout, err)
	})
}

// ReadText returns the text content of loc, or "" when it does not appear in time.
// Only a broken session is reported as an error.
func (s *Session) ReadText(ctx context.Context, loc Locator) (string, error) {
	var text string
	err := s.step(ctx, "read-text", loc.desc, func() error {
		t, err := budget(ctx, DefaultReadTimeout)
		if err != nil {
			return actionError("read-text", loc.desc, ErrElementTimeout, err)
		}
		text, err = loc.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: millis(t)})
		return actionError("read-text", loc.desc, ErrElementTimeout, err)
	})
	if _, err := Soft(err); err != nil {
		return "", err
	}
	return text, nil
}

// ReadTexts returns the inner text of every current match of loc without waiting.
func (s *Session) ReadTexts(ctx context.Context, loc Locator) ([]string, error) {
	var texts []string
	err := s.step(ctx, "read-texts", loc.desc, func() error {
		var err error
		texts, err = loc.loc.AllInnerTexts()
		return actionError("read-texts", loc.desc, ErrElementTimeout, err)
	})
	return texts, err
}

// Count returns the number of elements currently matching loc. It never waits.
func (s *Session) Count(ctx context.Context, loc Locator) (int, error) {
	var n int
	err := s.step(ctx, "count", loc.desc, func() error {
		var err error
		n, err = loc.loc.Count()
		return actionError("count", loc.desc, ErrInteraction, err)
	})
	return n, err
}

// Sleep pauses for d or until ctx is done.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// URL returns the current page URL.
func (s *Session) URL() string {
	if s.closed.Load() {
		return ""
	}
	return s.page.URL()
}

// MatchesURL reports whether the current URL matches a glob pattern. It never waits.
func (s *Session) MatchesURL(pattern string) bool {
	return MatchGlob(pattern, s.URL())
}

// Screenshot writes a full-page PNG to path, creating parent directories.
func (s *Session) Screenshot(path string) error {
	if s.closed.Load() {
		return &ActionError{Op: "screenshot", Target: path, Kind: ErrSessionClosed}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating screenshot directory: %w", err)
	}
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return actionError("screenshot", path, ErrInteraction, err)
}

// Close tears down the browser context. Only the first call has an effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.bctx.Close(); err != nil {
			s.closeErr = fmt.Errorf("closing browser context: %w", err)
		}
	})
	return s.closeErr
}

func (s *Session) visible(ctx context.Context, loc Locator, timeout time.Duration) (time.Duration, error) {
	t, err := budget(ctx, timeout)
	if err != nil {
		return 0, err
	}
	err = loc.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(t),
	})
	return t, err
}

// step runs fn as one journaled primitive.
func (s *Session) step(ctx context.Context, op, target string, fn func() error) error {
	if s.closed.Load() {
		return &ActionError{Op: op, Target: target, Kind: ErrSessionClosed}
	}

	start := time.Now()
	err := fn()
	end := time.Now()

	st := journal.Step{Scenario: s.ref, Op: op, Target: target, Start: start, End: end}
	if err != nil {
		st.Err = err.Error()
		s.logger.DebugContext(ctx, "Browser step failed", "op", op, "target", target, "duration", end.Sub(start), "error", err)
	}
	s.journal.Record(st)

	return err
}

// budget bounds timeout by the context deadline.
func budget(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		timeout = min(timeout, remaining)
	}
	// Zero disables the engine timeout entirely.
	return max(timeout, time.Millisecond), nil
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
