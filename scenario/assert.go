package scenario

import (
	"fmt"
)

// AssertionError reports a named check that did not hold.
type AssertionError struct {
	Check   string
	Message string
}

func (e *AssertionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("check %q failed", e.Check)
	}
	return fmt.Sprintf("check %q failed: %s", e.Check, e.Message)
}

// Check returns nil if cond holds and an *AssertionError naming the check otherwise.
// msgAndArgs is an optional format string followed by its arguments.
func Check(cond bool, name string, msgAndArgs ...any) error {
	if cond {
		return nil
	}
	return &AssertionError{Check: name, Message: formatMessage(msgAndArgs)}
}

// Require guards a fixture lookup: it fails the scenario when the record is absent.
func Require(ok bool, what string) error {
	if ok {
		return nil
	}
	return &AssertionError{Check: "fixture " + what, Message: "required test data is missing"}
}

func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprint(msgAndArgs...)
	}
	if len(msgAndArgs) == 1 {
		return format
	}
	return fmt.Sprintf(format, msgAndArgs[1:]...)
}
