package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
)

// HistoryEntry is one row of the history table.
type HistoryEntry struct {
	// Cells holds the trimmed cell texts in column order.
	Cells []string
	// Fields maps the expected column names onto Cells by position.
	Fields map[string]string
}

// Field returns the cell of the named column, or "".
func (e HistoryEntry) Field(column string) string {
	return e.Fields[column]
}

type HistoryPage struct {
	s    *browser.Session
	data *fixture.Document
}

func NewHistoryPage(s *browser.Session, data *fixture.Document) *HistoryPage {
	return &HistoryPage{s: s, data: data}
}

func (p *HistoryPage) navButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "History", true)
}

func (p *HistoryPage) table() browser.Locator {
	return p.s.CSS("table").First()
}

func (p *HistoryPage) rows() browser.Locator {
	return p.s.CSS("table tbody tr")
}

// Open switches to the history area through the main navigation.
// It does not wait for the URL; use IsOnHistoryPage to confirm the switch.
func (p *HistoryPage) Open(ctx context.Context) error {
	if err := p.s.ClickWithin(ctx, p.navButton(), p.data.Timeout("click")); err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	return nil
}

// IsOnHistoryPage waits up to the history budget for the history URL.
func (p *HistoryPage) IsOnHistoryPage(ctx context.Context) (bool, error) {
	return browser.Soft(p.s.WaitURL(ctx, p.data.URLs().HistoryPagePattern, p.data.Timeout("history")))
}

func (p *HistoryPage) TableDisplayed(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.table(), p.data.Timeout("default"))
}

func (p *HistoryPage) HeaderVisible(ctx context.Context, header string) (bool, error) {
	return p.s.IsVisible(ctx, p.s.ByRole(*playwright.AriaRoleHeading, header, false).First(), p.data.Timeout("default"))
}

// RecordCount returns the number of rows currently in the table. A missing table counts as 0.
func (p *HistoryPage) RecordCount(ctx context.Context) (int, error) {
	n, err := p.s.Count(ctx, p.rows())
	if err != nil {
		return 0, fmt.Errorf("counting history records: %w", err)
	}
	return n, nil
}

// FirstRecord extracts the first row, mapping its cells onto columns by position.
// The boolean is false when the table has no rows.
func (p *HistoryPage) FirstRecord(ctx context.Context, columns ...string) (HistoryEntry, bool, error) {
	n, err := p.RecordCount(ctx)
	if err != nil || n == 0 {
		return HistoryEntry{}, false, err
	}

	texts, err := p.s.ReadTexts(ctx, p.rows().First().Within("td"))
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("reading history record: %w", err)
	}

	return newHistoryEntry(texts, columns), true, nil
}

func newHistoryEntry(texts, columns []string) HistoryEntry {
	entry := HistoryEntry{
		Cells:  make([]string, len(texts)),
		Fields: make(map[string]string, len(columns)),
	}
	for i, t := range texts {
		entry.Cells[i] = strings.TrimSpace(t)
	}
	for i, col := range columns {
		if i < len(entry.Cells) {
			entry.Fields[col] = entry.Cells[i]
		}
	}
	return entry
}
