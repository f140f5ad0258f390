//go:build acceptance
// +build acceptance

package acceptance

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	slogmulti "github.com/samber/slog-multi"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/fixture"
	"github.com/sumitdasdk/DRX-pro/journal"
	"github.com/sumitdasdk/DRX-pro/rxapp"
)

// TestApp is the reference application served for one test, with the fixture
// document pointed at it and a journal collecting steps and logs.
type TestApp struct {
	Server  *httptest.Server
	App     *rxapp.Handler
	AppURL  string
	Data    *fixture.Document
	Journal *journal.Journal
	Logger  *slog.Logger
}

// NewTestApp serves a fresh application with the repository fixture's credentials.
func NewTestApp(t *testing.T, opts ...rxapp.HandlerOption) *TestApp {
	t.Helper()

	doc, err := fixture.Cached(fixture.RepositoryPath())
	require.NoError(t, err, "failed to load fixture document")

	j := journal.New()

	// Collect debug logs in the journal, show warnings on stderr
	logger := slog.New(
		slogmulti.Fanout(
			journal.NewHandler(j, journal.HandlerOptions{Level: slog.LevelDebug}),
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
		),
	)

	login := doc.Login()
	app := rxapp.NewHandler(append([]rxapp.HandlerOption{
		rxapp.WithCredentials(login.Username, login.Password),
		rxapp.WithDisplayName(login.ExpectedDisplayName),
		rxapp.WithLogger(logger),
	}, opts...)...)

	server := httptest.NewServer(app)
	appURL := server.URL + "/"

	return &TestApp{
		Server:  server,
		App:     app,
		AppURL:  appURL,
		Data:    doc.WithBaseURL(appURL),
		Journal: j,
		Logger:  logger,
	}
}

// Close shuts down the test application and releases resources.
func (ta *TestApp) Close() {
	ta.Server.Close()
	ta.App.Close()
	ta.Journal.Close()
}
