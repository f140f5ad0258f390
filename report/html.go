package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/templ"

	"github.com/sumitdasdk/DRX-pro/scenario"
)

// HTML returns a standalone page listing every result. Failed results include their
// recorded steps as highlighted JSON and, with WithJournal, their captured log records.
func HTML(rep scenario.Report, opts ...Option) templ.Component {
	o := newOptions(opts)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(o.Title)
		fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title>", title)
		if err := chromaStyles().Render(ctx, w); err != nil {
			return err
		}
		fmt.Fprintf(w, "</head><body><h1>%s</h1>", title)

		fmt.Fprintf(w, `<p id="summary">%d scenarios: %d passed, %d failed (%s)</p>`,
			len(rep.Results), len(rep.Passed()), len(rep.Failed()), formatDuration(rep.Duration))

		_, _ = io.WriteString(w, `<table id="results"><thead><tr><th>Status</th><th>Scenario</th><th>Duration</th><th>Detail</th></tr></thead><tbody>`)
		for _, r := range rep.Results {
			if err := resultRow(r).Render(ctx, w); err != nil {
				return err
			}
		}
		_, _ = io.WriteString(w, "</tbody></table>")

		for _, r := range rep.Results {
			if r.Passed() && !o.Verbose {
				continue
			}
			if err := resultDetail(r, o).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func resultRow(r scenario.Result) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		props, label := resultBadge(r)
		detail := r.Description
		if !r.Passed() {
			detail = r.Err.Error()
		}
		_, err := fmt.Fprintf(w, `<tr data-scenario="%s"><td><span class="%s">%s</span></td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			templ.EscapeString(r.Name),
			badgeClasses(props),
			label,
			templ.EscapeString(r.Name),
			formatDuration(r.Duration),
			templ.EscapeString(detail),
		)
		return err
	})
}

func resultDetail(r scenario.Result, o options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<section class="detail" id="detail-%s"><h2>%s</h2>`, templ.EscapeString(r.Name), templ.EscapeString(r.Name))

		if len(r.Steps) > 0 {
			steps, err := json.MarshalIndent(r.Steps, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding steps: %w", err)
			}
			_, _ = io.WriteString(w, "<h3>Steps</h3>")
			if err := highlightContent(string(steps), "application/json").Render(ctx, w); err != nil {
				return err
			}
		}

		if !r.Passed() && o.Journal != nil {
			records := o.Journal.Logs(r.Ref, o.LogTail)
			if len(records) > 0 {
				_, _ = io.WriteString(w, `<h3>Logs</h3><ul class="logs">`)
				for _, rec := range records {
					fmt.Fprintf(w, "<li><code>%s</code> %s %s</li>",
						rec.Level, templ.EscapeString(rec.Message), templ.EscapeString(formatAttrs(rec)))
				}
				_, _ = io.WriteString(w, "</ul>")
			}
		}

		_, err := io.WriteString(w, "</section>")
		return err
	})
}

func formatAttrs(rec slog.Record) string {
	var parts []string
	for attr := range iterSlogAttrs(rec) {
		parts = append(parts, attr.String())
	}
	return strings.Join(parts, " ")
}
