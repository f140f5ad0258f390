package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrNavigationTimeout is returned when a page load or URL wait exceeds its budget.
	ErrNavigationTimeout = errors.New("navigation timeout")
	// ErrElementTimeout is returned when an element does not become visible within its budget.
	ErrElementTimeout = errors.New("element timeout")
	// ErrInteraction is returned when the browser rejects an action for any other reason.
	ErrInteraction = errors.New("interaction failed")
	// ErrSessionClosed is returned for any use of a session after Close or after the browser went away.
	ErrSessionClosed = errors.New("session closed")
	// ErrAborted is returned when the caller's context ended before or during a primitive.
	ErrAborted = errors.New("aborted")
)

// ActionError describes a failed primitive.
// Kind is one of the package sentinels; Err is the underlying cause.
type ActionError struct {
	Op     string
	Target string
	Kind   error
	Err    error
}

func (e *ActionError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg += " " + e.Target
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ActionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// actionError maps err into the taxonomy. timeoutKind is used for engine timeouts only;
// an ended caller context is ErrAborted, never a timeout.
func actionError(op, target string, timeoutKind, err error) error {
	if err == nil {
		return nil
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return err
	}

	kind := ErrInteraction
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = ErrAborted
	case errors.Is(err, playwright.ErrTimeout):
		kind = timeoutKind
	case errors.Is(err, playwright.ErrTargetClosed), errors.Is(err, ErrSessionClosed):
		kind = ErrSessionClosed
	}
	return &ActionError{Op: op, Target: target, Kind: kind, Err: err}
}

// Presence is the outcome of an existence check.
type Presence int

const (
	// Found means the awaited condition held.
	Found Presence = iota
	// NotFound means the condition did not hold within its budget.
	NotFound
	// Broken means the session itself failed; it is never a negative answer.
	Broken
)

func (p Presence) String() string {
	switch p {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	default:
		return "broken"
	}
}

// Classify sorts the result of a wait into Found, NotFound or Broken.
// Only engine timeouts count as NotFound; an aborted or closed session is Broken.
func Classify(err error) Presence {
	switch {
	case err == nil:
		return Found
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrAborted):
		return Broken
	case errors.Is(err, ErrElementTimeout), errors.Is(err, ErrNavigationTimeout):
		return NotFound
	default:
		return Broken
	}
}

// Soft turns a wait result into a boolean answer.
// NotFound becomes false; Broken is returned as an error so it is never mistaken for absence.
func Soft(err error) (bool, error) {
	switch Classify(err) {
	case Found:
		return true, nil
	case NotFound:
		return false, nil
	default:
		return false, fmt.Errorf("presence check: %w", err)
	}
}
