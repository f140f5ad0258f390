// Package browser wraps the browser engine in bounded, journaled interaction primitives.
//
// A Driver owns the engine process and one launched browser. Each scenario opens its own
// Session, an isolated browser context with a single page, and closes it when done.
// Every primitive takes a context whose deadline caps the primitive's own timeout.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DriverOptions configures Launch. Zero values select the defaults.
type DriverOptions struct {
	// Browser is "chromium" (default), "firefox" or "webkit".
	Browser string
	// Headless defaults to true unless HEADLESS=false is set in the environment.
	Headless *bool
	// SlowMo delays every engine operation, useful when watching a headed run.
	SlowMo time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Driver manages the engine process and a launched browser shared by all sessions.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  *slog.Logger
}

// Launch starts the engine and the configured browser.
func Launch(options DriverOptions) (*Driver, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	headless := os.Getenv("HEADLESS") != "false"
	if options.Headless != nil {
		headless = *options.Headless
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browserType := pw.Chromium
	switch strings.ToLower(options.Browser) {
	case "", "chromium":
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unknown browser %q", options.Browser)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	}
	if options.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(options.SlowMo.Milliseconds()))
	}

	b, err := browserType.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching %s: %w", browserType.Name(), err)
	}

	logger.Debug("Launched browser", "browser", browserType.Name(), "version", b.Version(), "headless", headless)

	return &Driver{pw: pw, browser: b, logger: logger}, nil
}

// NewSession creates an isolated browser context with one page.
func (d *Driver) NewSession(ctx context.Context, options SessionOptions) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if options.Logger == nil {
		options.Logger = d.logger
	}

	contextOptions := playwright.BrowserNewContextOptions{}
	if options.BaseURL != "" {
		contextOptions.BaseURL = playwright.String(options.BaseURL)
	}
	if options.ViewportWidth > 0 && options.ViewportHeight > 0 {
		contextOptions.Viewport = &playwright.Size{
			Width:  options.ViewportWidth,
			Height: options.ViewportHeight,
		}
	}

	bctx, err := d.browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(DefaultFillTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	return newSession(bctx, page, options), nil
}

// Close shuts down the browser and the engine process.
func (d *Driver) Close() error {
	var errs []error
	if err := d.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing browser: %w", err))
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
	}
	return errors.Join(errs...)
}

// Install downloads the engine driver and the named browsers (all when none are given).
func Install(browsers ...string) error {
	options := &playwright.RunOptions{Verbose: true}
	if len(browsers) > 0 {
		options.Browsers = browsers
	}
	if err := playwright.Install(options); err != nil {
		return fmt.Errorf("installing playwright: %w", err)
	}
	return nil
}
