package report

import (
	"context"
	"fmt"
	"io"

	"github.com/sumitdasdk/DRX-pro/journal"
)

// Follow writes each step recorded in j to w as it happens, until ctx is done or j is closed.
// The returned channel is closed after the last received step was written.
func Follow(ctx context.Context, j *journal.Journal, w io.Writer) <-chan struct{} {
	steps := j.SubscribeSteps(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for s := range steps {
			status := "ok"
			if s.Failed() {
				status = s.Err
			}
			fmt.Fprintf(w, "%s %s %s %s (%s) %s\n",
				s.End.Format("15:04:05.000"), s.Scenario, s.Op, s.Target, formatDuration(s.Duration()), status)
		}
	}()

	return done
}
