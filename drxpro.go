// Package drxpro wires the end-to-end suite of the Digital Rx Pro doctor portal:
// the fixture document, the step journal, the browser driver and the scenario
// catalogue, optionally against an in-process copy of the application.
package drxpro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
	"github.com/sumitdasdk/DRX-pro/journal"
	"github.com/sumitdasdk/DRX-pro/rxapp"
	"github.com/sumitdasdk/DRX-pro/scenario"
	"github.com/sumitdasdk/DRX-pro/scenarios"
)

// ErrUnreachable is returned by Preflight when the application does not answer.
var ErrUnreachable = errors.New("application unreachable")

type Instance struct {
	options Options
	data    *fixture.Document
	names   *fixture.Namer
	journal *journal.Journal
	logger  *slog.Logger

	driverMu sync.Mutex
	driver   *browser.Driver

	app       *rxapp.Handler
	appServer *http.Server

	closeOnce sync.Once
	closeErr  error
}

type Options struct {
	// FixturePath is the fixture document to load.
	// Default: "", will use fixture.RepositoryPath()
	FixturePath string
	// BaseURL replaces the base URL of the fixture document.
	// Default: "", keeps the fixture's base URL
	BaseURL string
	// LocalApp serves the reference application on a loopback port and points the suite at it.
	// Takes precedence over BaseURL.
	// Default: false
	LocalApp bool
	// AppOptions are passed to the reference application in addition to the fixture credentials.
	AppOptions []rxapp.HandlerOption

	// Parallelism is the number of scenarios running at once.
	// Default: 0, runs one scenario at a time
	Parallelism int
	// ScenarioTimeout bounds each scenario run.
	// Default: 0, only the primitives' own timeouts apply
	ScenarioTimeout time.Duration
	// StepTail is the number of steps attached to each result.
	// Default: 0, will use 20
	StepTail int
	// ScreenshotDir receives a full-page screenshot of every failed scenario.
	// Default: "", no screenshots
	ScreenshotDir string
	// CollisionGuard disambiguates generated names that would repeat within one second.
	// Default: false
	CollisionGuard bool

	// JournalOptions are the options for the step journal.
	// Default: nil, will use journal defaults
	JournalOptions *journal.Options
	// DriverOptions are the options for launching the browser.
	// Default: nil, will launch headless chromium
	DriverOptions *browser.DriverOptions
	// Session holds per-session settings such as the viewport.
	Session browser.SessionOptions

	// Logger receives suite logs. Records are also captured into the journal.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// Selection picks scenarios by name or by tag. The zero value selects every scenario.
type Selection struct {
	Names []string
	Tags  []string
}

// New creates an instance with default options.
func New() (*Instance, error) {
	return NewWithOptions(Options{})
}

// NewWithOptions loads the fixture document and prepares the suite.
// The browser is only launched by the first Run.
func NewWithOptions(options Options) (*Instance, error) {
	path := options.FixturePath
	if path == "" {
		path = fixture.RepositoryPath()
	}
	data, err := fixture.Cached(path)
	if err != nil {
		return nil, err
	}

	journalOptions := journal.Options{}
	if options.JournalOptions != nil {
		journalOptions = *options.JournalOptions
	}
	j := journal.NewWithOptions(journalOptions)

	baseHandler := slog.Default().Handler()
	if options.Logger != nil {
		baseHandler = options.Logger.Handler()
	}
	logger := slog.New(slogmulti.Fanout(
		baseHandler,
		journal.NewHandler(j, journal.HandlerOptions{Level: slog.LevelDebug}),
	))

	var namerOptions []fixture.NamerOption
	if options.CollisionGuard {
		namerOptions = append(namerOptions, fixture.WithCollisionGuard())
	}

	i := &Instance{
		options: options,
		data:    data,
		names:   fixture.NewNamer(namerOptions...),
		journal: j,
		logger:  logger,
	}

	switch {
	case options.LocalApp:
		if err := i.startLocalApp(); err != nil {
			j.Close()
			return nil, err
		}
	case options.BaseURL != "":
		i.data = data.WithBaseURL(options.BaseURL)
	}

	return i, nil
}

func (i *Instance) startLocalApp() error {
	login := i.data.Login()
	appOptions := append([]rxapp.HandlerOption{
		rxapp.WithCredentials(login.Username, login.Password),
		rxapp.WithDisplayName(login.ExpectedDisplayName),
		rxapp.WithLogger(i.logger.With("component", "rxapp")),
	}, i.options.AppOptions...)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listening for local app: %w", err)
	}

	i.app = rxapp.NewHandler(appOptions...)
	i.appServer = &http.Server{
		Handler:           i.app,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := i.appServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			i.logger.Error("Local app stopped", slog.Any("err", err))
		}
	}()

	baseURL := "http://" + ln.Addr().String() + "/"
	i.data = i.data.WithBaseURL(baseURL)
	i.logger.Info("Serving local app", slog.String("url", baseURL))
	return nil
}

// Data returns the fixture document the suite runs with.
func (i *Instance) Data() *fixture.Document {
	return i.data
}

func (i *Instance) Journal() *journal.Journal {
	return i.journal
}

// Logger returns the suite logger, which also feeds the journal.
func (i *Instance) Logger() *slog.Logger {
	return i.logger
}

// BaseURL returns the address of the application under test.
func (i *Instance) BaseURL() string {
	return i.data.URLs().BaseURL
}

// CollectSlogLogs returns a slog.Handler that captures logs into the journal.
//
// You can use this handler with slog.New(slogmulti.Fanout(...)) to capture logs in addition to another slog handler.
func (i *Instance) CollectSlogLogs(options journal.HandlerOptions) slog.Handler {
	return journal.NewHandler(i.journal, options)
}

// Scenarios returns the catalogue entries matching sel, in catalogue order for tags
// and in the given order for names.
func (i *Instance) Scenarios(sel Selection) (scenario.Set[*scenarios.Env], error) {
	set, err := scenarios.All().Select(sel.Names...)
	if err != nil {
		return nil, err
	}
	if len(sel.Tags) > 0 {
		set = set.Tagged(sel.Tags...)
	}
	return set, nil
}

// Preflight requests the base URL once and fails when the application does not answer.
// The request is recorded in the journal.
func (i *Instance) Preflight(ctx context.Context) error {
	client := &http.Client{
		Transport: i.journal.Transport(nil),
		Timeout:   i.data.Timeout("navigation"),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.BaseURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s answered %s", ErrUnreachable, i.BaseURL(), resp.Status)
	}
	i.logger.DebugContext(ctx, "Application reachable", slog.String("url", i.BaseURL()), slog.Int("status", resp.StatusCode))
	return nil
}

// Run launches the browser on first use and executes the selected scenarios.
func (i *Instance) Run(ctx context.Context, sel Selection) (scenario.Report, error) {
	set, err := i.Scenarios(sel)
	if err != nil {
		return scenario.Report{}, err
	}

	d, err := i.ensureDriver()
	if err != nil {
		return scenario.Report{}, err
	}

	runner := scenario.New(
		scenarios.Opener(d, scenarios.OpenerOptions{
			Data:    i.data,
			Names:   i.names,
			Journal: i.journal,
			Logger:  i.logger,
			Session: i.options.Session,
		}),
		i.runnerOptions()...,
	)

	i.logger.InfoContext(ctx, "Running scenarios", slog.Int("count", len(set)), slog.String("baseUrl", i.BaseURL()))
	return runner.Run(ctx, set), nil
}

func (i *Instance) runnerOptions() []scenario.Option {
	stepTail := i.options.StepTail
	if stepTail == 0 {
		stepTail = 20
	}

	opts := []scenario.Option{
		scenario.WithParallelism(i.options.Parallelism),
		scenario.WithTimeout(i.options.ScenarioTimeout),
		scenario.WithLogger(i.logger),
		scenario.WithJournal(i.journal, stepTail),
	}
	if i.options.ScreenshotDir != "" {
		opts = append(opts, scenario.WithFailureHook(scenarios.ScreenshotOnFailure(i.options.ScreenshotDir, i.logger)))
	}
	return opts
}

func (i *Instance) ensureDriver() (*browser.Driver, error) {
	i.driverMu.Lock()
	defer i.driverMu.Unlock()

	if i.driver != nil {
		return i.driver, nil
	}

	driverOptions := browser.DriverOptions{}
	if i.options.DriverOptions != nil {
		driverOptions = *i.options.DriverOptions
	}
	if driverOptions.Logger == nil {
		driverOptions.Logger = i.logger
	}

	d, err := browser.Launch(driverOptions)
	if err != nil {
		return nil, err
	}
	i.driver = d
	return d, nil
}

// Close stops the browser and the local app and releases the journal.
// It is safe to call more than once.
func (i *Instance) Close() error {
	i.closeOnce.Do(func() {
		var errs []error

		i.driverMu.Lock()
		if i.driver != nil {
			errs = append(errs, i.driver.Close())
		}
		i.driverMu.Unlock()

		if i.appServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := i.appServer.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("stopping local app: %w", err))
			}
			cancel()
			i.app.Close()
		}

		i.journal.Close()
		i.closeErr = errors.Join(errs...)
	})
	return i.closeErr
}
