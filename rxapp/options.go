package rxapp

import (
	"log/slog"
	"time"
)

// Default credentials of the reference application.
const (
	DefaultUsername    = "Sadman"
	DefaultPassword    = "Sadman1#"
	DefaultDisplayName = "Dr. Sadman Soeb Adib"
)

// handlerOptions holds configuration for a Handler.
// This is unexported; use HandlerOption functions to configure.
type handlerOptions struct {
	// Username and Password are the only accepted credentials.
	Username string
	Password string
	// DisplayName is shown in the user menu after sign-in.
	DisplayName string
	// SessionIdleTimeout is how long a sign-in survives without requests.
	SessionIdleTimeout time.Duration
	// AddPatientDelay postpones revealing the Add Patient button on the RX page.
	AddPatientDelay time.Duration
	Logger          *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*handlerOptions)

// WithCredentials sets the username and password accepted by the login form.
func WithCredentials(username, password string) HandlerOption {
	return func(o *handlerOptions) {
		o.Username = username
		o.Password = password
	}
}

// WithDisplayName sets the name rendered in the user menu.
func WithDisplayName(name string) HandlerOption {
	return func(o *handlerOptions) {
		o.DisplayName = name
	}
}

// WithSessionIdleTimeout sets how long a sign-in stays valid without activity.
// Default is DefaultSessionIdleTimeout.
func WithSessionIdleTimeout(timeout time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		o.SessionIdleTimeout = timeout
	}
}

// WithAddPatientDelay hides the Add Patient button for d after the RX page loads,
// like the production page does while it fetches its data.
func WithAddPatientDelay(d time.Duration) HandlerOption {
	return func(o *handlerOptions) {
		o.AddPatientDelay = d
	}
}

func WithLogger(logger *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.Logger = logger
	}
}
