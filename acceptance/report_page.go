//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/browser"
)

// ReportPage provides helper methods for inspecting a rendered suite report in the browser.
// It implements the Page Object pattern for cleaner test code.
type ReportPage struct {
	Session *browser.Session
	URL     string
	ctx     context.Context
	t       *testing.T
}

// NewReportPage serves the report component and opens it in s.
func NewReportPage(t *testing.T, ctx context.Context, s *browser.Session, report templ.Component) *ReportPage {
	t.Helper()

	server := httptest.NewServer(templ.Handler(report))
	t.Cleanup(server.Close)

	err := s.Navigate(ctx, server.URL)
	require.NoError(t, err)

	err = s.WaitVisible(ctx, s.CSS("#results"), 5*time.Second)
	require.NoError(t, err, "report table did not render")

	return &ReportPage{Session: s, URL: server.URL, ctx: ctx, t: t}
}

// Summary returns the summary line above the results table.
func (rp *ReportPage) Summary() string {
	rp.t.Helper()

	text, err := rp.Session.ReadText(rp.ctx, rp.Session.CSS("#summary"))
	require.NoError(rp.t, err)
	return text
}

// GetResultCount returns the number of rows in the results table.
func (rp *ReportPage) GetResultCount() int {
	rp.t.Helper()

	count, err := rp.Session.Count(rp.ctx, rp.Session.CSS("#results tbody tr"))
	require.NoError(rp.t, err)
	return count
}

// Status returns the badge label of the named scenario.
func (rp *ReportPage) Status(name string) string {
	rp.t.Helper()

	text, err := rp.Session.ReadText(rp.ctx, rp.Session.CSS(fmt.Sprintf(`#results tr[data-scenario=%q] .badge`, name)))
	require.NoError(rp.t, err)
	return text
}

// HasDetail reports whether the named scenario has a detail section.
func (rp *ReportPage) HasDetail(name string) bool {
	rp.t.Helper()

	n, err := rp.Session.Count(rp.ctx, rp.Session.CSS(fmt.Sprintf(`section[id=%q]`, "detail-"+name)))
	require.NoError(rp.t, err)
	return n > 0
}
