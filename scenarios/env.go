// Package scenarios is the catalogue of end-to-end checks of the prescription application.
package scenarios

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
	"github.com/sumitdasdk/DRX-pro/journal"
	"github.com/sumitdasdk/DRX-pro/pages"
	"github.com/sumitdasdk/DRX-pro/scenario"
)

// Env is what a scenario works with: its own browser session, the fixture document
// and the workflow objects bound to both.
type Env struct {
	Session *browser.Session
	Data    *fixture.Document
	Names   *fixture.Namer
	Logger  *slog.Logger

	Login    *pages.LoginPage
	Patients *pages.PatientPage
	Rx       *pages.PrescriptionPage
	History  *pages.HistoryPage
}

func NewEnv(s *browser.Session, data *fixture.Document, names *fixture.Namer, logger *slog.Logger) *Env {
	if names == nil {
		names = fixture.NewNamer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Env{
		Session:  s,
		Data:     data,
		Names:    names,
		Logger:   logger,
		Login:    pages.NewLoginPage(s, data),
		Patients: pages.NewPatientPage(s, data),
		Rx:       pages.NewPrescriptionPage(s, data),
		History:  pages.NewHistoryPage(s, data),
	}
}

func (e *Env) Close() error {
	return e.Session.Close()
}

func (e *Env) Screenshot(path string) error {
	return e.Session.Screenshot(path)
}

// OpenerOptions configures Opener.
type OpenerOptions struct {
	Data    *fixture.Document
	Names   *fixture.Namer
	Journal *journal.Journal
	Logger  *slog.Logger
	// Session is passed to every new session; Ref, Journal and Logger are filled in.
	Session browser.SessionOptions
}

// Opener returns a scenario.Opener creating one browser session per scenario run.
func Opener(d *browser.Driver, options OpenerOptions) scenario.Opener[*Env] {
	return func(ctx context.Context, ref scenario.Ref) (*Env, error) {
		sessionOptions := options.Session
		sessionOptions.Ref = ref
		sessionOptions.Journal = options.Journal
		sessionOptions.Logger = options.Logger
		if sessionOptions.NavigationTimeout == 0 {
			sessionOptions.NavigationTimeout = options.Data.Timeout("navigation")
		}

		s, err := d.NewSession(ctx, sessionOptions)
		if err != nil {
			return nil, err
		}
		return NewEnv(s, options.Data, options.Names, options.Logger), nil
	}
}

// ScreenshotOnFailure returns a failure hook writing one PNG per failed scenario into dir.
func ScreenshotOnFailure(dir string, logger *slog.Logger) scenario.FailureHook {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, ref scenario.Ref, env scenario.Env, _ error) {
		shooter, ok := env.(interface{ Screenshot(string) error })
		if !ok {
			return
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", ref.Name, time.Now().Format("20060102_150405")))
		if err := shooter.Screenshot(path); err != nil {
			logger.WarnContext(ctx, "Failed to take screenshot", "scenario", ref.Name, "err", err)
			return
		}
		logger.InfoContext(ctx, "Saved failure screenshot", "scenario", ref.Name, "path", path)
	}
}
