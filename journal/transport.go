package journal

import (
	"net/http"
	"time"
)

// Transport returns an http.RoundTripper that records every request as a step.
// Requests whose context carries a scenario are attributed to it.
// Transport errors and 5xx responses mark the step failed.
func (j *Journal) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &journalTransport{
		next:    next,
		journal: j,
	}
}

type journalTransport struct {
	next    http.RoundTripper
	journal *Journal
}

func (t *journalTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ref, _ := ScenarioFromContext(req.Context())
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	step := Step{
		Scenario: ref,
		Op:       "http",
		Target:   req.Method + " " + req.URL.String(),
		Start:    start,
		End:      time.Now(),
	}
	switch {
	case err != nil:
		step.Err = err.Error()
	case resp.StatusCode >= http.StatusInternalServerError:
		step.Err = resp.Status
	}
	t.journal.Record(step)

	return resp, err
}
