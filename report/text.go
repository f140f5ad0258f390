package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sumitdasdk/DRX-pro/journal"
	"github.com/sumitdasdk/DRX-pro/scenario"
)

// WriteText writes one line per result, the recorded steps of failed results and a summary.
func WriteText(w io.Writer, rep scenario.Report, opts ...Option) error {
	o := newOptions(opts)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rep.Results {
		_, label := resultBadge(r)
		line := r.Description
		if !r.Passed() {
			line = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", label, r.Name, formatDuration(r.Duration), line)

		if r.Passed() && !o.Verbose {
			continue
		}
		for _, s := range r.Steps {
			writeStep(tw, s)
		}
		if !r.Passed() && o.Journal != nil {
			for _, rec := range o.Journal.Logs(r.Ref, o.LogTail) {
				fmt.Fprintf(tw, "\t\tlog\t%s %s\n", rec.Level, rec.Message)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d scenarios: %d passed, %d failed (%s)\n",
		len(rep.Results), len(rep.Passed()), len(rep.Failed()), formatDuration(rep.Duration))
	return err
}

func writeStep(w io.Writer, s journal.Step) {
	status := "ok"
	if s.Failed() {
		status = s.Err
	}
	fmt.Fprintf(w, "\t\t%s %s\t%s\t%s\n", s.Op, s.Target, formatDuration(s.Duration()), status)
}
