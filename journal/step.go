// Package journal records what the suite did to the browser.
//
// Every interaction primitive appends a Step; log records emitted while a
// scenario runs are captured alongside. Reports read both back per scenario.
package journal

import (
	"time"

	"github.com/gofrs/uuid"
)

// Ref identifies one run of one scenario.
type Ref struct {
	ID   uuid.UUID
	Name string
}

// NewRef returns a Ref with a fresh run id.
func NewRef(name string) Ref {
	return Ref{ID: uuid.Must(uuid.NewV7()), Name: name}
}

func (r Ref) IsZero() bool {
	return r.ID == uuid.Nil
}

func (r Ref) String() string {
	if r.IsZero() {
		return r.Name
	}
	return r.Name + "#" + r.ID.String()[:8]
}

// Step is a single interaction performed against the browser.
type Step struct {
	ID       uuid.UUID `json:"id"`
	Scenario Ref       `json:"-"`
	Op       string    `json:"op"`
	Target   string    `json:"target,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Err      string    `json:"error,omitempty"`
}

func (s Step) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func (s Step) Failed() bool {
	return s.Err != ""
}
