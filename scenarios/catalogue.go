package scenarios

import (
	"context"
	"strings"

	"github.com/sumitdasdk/DRX-pro/scenario"
)

// NonexistentPatient is searched for to check that the list filters out unknown names.
const NonexistentPatient = "NonexistentPatient_zzz"

// Tags used by the catalogue.
const (
	TagLogin        = "login"
	TagPatient      = "patient"
	TagPrescription = "prescription"
	TagHistory      = "history"
	// TagWrites marks scenarios that create records in the application.
	TagWrites = "writes"
)

// All returns every scenario in a stable order.
func All() scenario.Set[*Env] {
	var set scenario.Set[*Env]
	set = append(set, Login()...)
	set = append(set, Patient()...)
	set = append(set, Prescription()...)
	set = append(set, History()...)
	return set
}

func Login() scenario.Set[*Env] {
	return scenario.Set[*Env]{
		{
			Name:        "TC-001",
			Description: "Sign in with valid credentials",
			Tags:        []string{TagLogin},
			Run: func(ctx context.Context, env *Env) error {
				if err := signIn(ctx, env); err != nil {
					return err
				}
				return scenario.Check(env.Login.IsAuthenticated(), "authenticated", "still at %s", env.Session.URL())
			},
		},
		{
			Name:        "TC-002",
			Description: "Display name is shown after sign-in",
			Tags:        []string{TagLogin},
			Run: func(ctx context.Context, env *Env) error {
				want := env.Data.Login().ExpectedDisplayName
				if err := scenario.Require(want != "", "login.expectedDisplayName"); err != nil {
					return err
				}
				if err := signIn(ctx, env); err != nil {
					return err
				}
				got, err := env.Login.CurrentDisplayName(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(strings.Contains(got, want), "display name", "got %q, want it to contain %q", got, want)
			},
		},
		{
			Name:        "TC-003",
			Description: "Patients area is reachable after sign-in",
			Tags:        []string{TagLogin, TagPatient},
			Run: func(ctx context.Context, env *Env) error {
				if err := signInToPatients(ctx, env); err != nil {
					return err
				}
				if err := scenario.Check(env.Patients.IsOnPatientPage(), "on patient page", "at %s", env.Session.URL()); err != nil {
					return err
				}
				visible, err := env.Patients.CreateButtonVisible(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "create patient button visible")
			},
		},
	}
}

func Patient() scenario.Set[*Env] {
	return scenario.Set[*Env]{
		{
			Name:        "TC-P01",
			Description: "Navigate to the patient list",
			Tags:        []string{TagPatient},
			Run: func(ctx context.Context, env *Env) error {
				if err := signInToPatients(ctx, env); err != nil {
					return err
				}
				return scenario.Check(env.Patients.IsOnPatientPage(), "on patient page", "at %s", env.Session.URL())
			},
		},
		{
			Name:        "TC-P02",
			Description: "Created patient is listed",
			Tags:        []string{TagPatient, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := patientRecord(env, "TC-P01")
				if err != nil {
					return err
				}
				if err := signInToPatients(ctx, env); err != nil {
					return err
				}
				name, err := createPatient(ctx, env, rec)
				if err != nil {
					return err
				}
				displayed, err := env.Patients.IsDisplayed(ctx, name)
				if err != nil {
					return err
				}
				return scenario.Check(displayed, "patient displayed", "%s not listed", name)
			},
		},
		{
			Name:        "TC-P03",
			Description: "Created patient is found by name",
			Tags:        []string{TagPatient, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := patientRecord(env, "TC-P02")
				if err != nil {
					return err
				}
				if err := signInToPatients(ctx, env); err != nil {
					return err
				}
				name, err := createPatient(ctx, env, rec)
				if err != nil {
					return err
				}
				if err := env.Patients.Search(ctx, name); err != nil {
					return err
				}
				found, err := env.Patients.IsDisplayed(ctx, name)
				if err != nil {
					return err
				}
				return scenario.Check(found, "patient found", "search for %s returned nothing", name)
			},
		},
		{
			Name:        "TC-P04",
			Description: "Searching an unknown name lists nothing",
			Tags:        []string{TagPatient},
			Run: func(ctx context.Context, env *Env) error {
				if err := signInToPatients(ctx, env); err != nil {
					return err
				}
				if err := env.Patients.Search(ctx, NonexistentPatient); err != nil {
					return err
				}
				displayed, err := env.Patients.IsDisplayed(ctx, NonexistentPatient)
				if err != nil {
					return err
				}
				return scenario.Check(!displayed, "unknown patient absent", "%s is listed", NonexistentPatient)
			},
		},
		{
			Name:        "TC-P05",
			Description: "Created patient is found by a partial name",
			Tags:        []string{TagPatient, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := patientRecord(env, "TC-P03")
				if err != nil {
					return err
				}
				if err := signInToPatients(ctx, env); err != nil {
					return err
				}
				name, err := createPatient(ctx, env, rec)
				if err != nil {
					return err
				}
				if err := env.Patients.SearchPartial(ctx, prefix(name)); err != nil {
					return err
				}
				found, err := env.Patients.IsDisplayed(ctx, name)
				if err != nil {
					return err
				}
				return scenario.Check(found, "patient found by prefix", "search for %s did not list %s", prefix(name), name)
			},
		},
	}
}

func Prescription() scenario.Set[*Env] {
	return scenario.Set[*Env]{
		{
			Name:        "TC-RX-PAGE-01",
			Description: "Sign-in lands on the RX page",
			Tags:        []string{TagPrescription, TagLogin},
			Run: func(ctx context.Context, env *Env) error {
				if err := signIn(ctx, env); err != nil {
					return err
				}
				return scenario.Check(env.Rx.IsOnRxPage(), "on rx page", "at %s", env.Session.URL())
			},
		},
		{
			Name:        "TC-RX-PAGE-02",
			Description: "Add Patient is offered on the RX page",
			Tags:        []string{TagPrescription},
			Run: func(ctx context.Context, env *Env) error {
				if err := signIn(ctx, env); err != nil {
					return err
				}
				visible, err := env.Rx.AddPatientVisible(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "add patient visible")
			},
		},
		{
			Name:        "TC-RX-PAGE-03",
			Description: "Registering a patient from RX opens the prescription form",
			Tags:        []string{TagPrescription, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				if _, err := openRxForm(ctx, env, "TC-RX-02"); err != nil {
					return err
				}
				displayed, err := env.Rx.FormDisplayed(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(displayed, "prescription form displayed")
			},
		},
		{
			Name:        "TC-RX-PAGE-04",
			Description: "Chief complaint field is shown on the prescription form",
			Tags:        []string{TagPrescription, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				if _, err := openRxForm(ctx, env, "TC-RX-03"); err != nil {
					return err
				}
				visible, err := env.Rx.ChiefComplaintVisible(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "chief complaint visible")
			},
		},
		{
			Name:        "TC-RX-PAGE-05",
			Description: "Chief complaint can be entered",
			Tags:        []string{TagPrescription, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := openRxForm(ctx, env, "TC-RX-03")
				if err != nil {
					return err
				}
				if err := env.Rx.AddChiefComplaint(ctx, rec.ChiefComplaint); err != nil {
					return err
				}
				visible, err := env.Rx.ChiefComplaintVisible(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "chief complaint visible after input")
			},
		},
		{
			Name:        "TC-RX-PAGE-06",
			Description: "Save is offered on the prescription form",
			Tags:        []string{TagPrescription, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				if _, err := openRxForm(ctx, env, "TC-RX-04"); err != nil {
					return err
				}
				visible, err := env.Rx.SaveVisible(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "save visible")
			},
		},
		{
			Name:        "TC-RX-PAGE-07",
			Description: "Complete prescription workflow",
			Tags:        []string{TagPrescription, TagWrites},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := openRxForm(ctx, env, "TC-RX-01")
				if err != nil {
					return err
				}
				title, err := env.Rx.FormTitle(ctx)
				if err != nil {
					return err
				}
				env.Logger.DebugContext(ctx, "Prescription form opened", "title", title)
				if err := env.Rx.AddChiefComplaint(ctx, rec.ChiefComplaint); err != nil {
					return err
				}
				if err := env.Rx.Save(ctx); err != nil {
					return err
				}
				saved, err := env.Rx.SavedConfirmation(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(saved, "prescription saved")
			},
		},
	}
}

func History() scenario.Set[*Env] {
	return scenario.Set[*Env]{
		{
			Name:        "TC-H-PAGE-01",
			Description: "Navigate to history",
			Tags:        []string{TagHistory},
			Run: func(ctx context.Context, env *Env) error {
				if err := openHistory(ctx, env); err != nil {
					return err
				}
				on, err := env.History.IsOnHistoryPage(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(on, "on history page", "at %s", env.Session.URL())
			},
		},
		{
			Name:        "TC-H-PAGE-02",
			Description: "History table is displayed",
			Tags:        []string{TagHistory},
			Run: func(ctx context.Context, env *Env) error {
				if err := openHistory(ctx, env); err != nil {
					return err
				}
				visible, err := env.History.TableDisplayed(ctx)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "history table displayed")
			},
		},
		{
			Name:        "TC-H-PAGE-03",
			Description: "History record count is available",
			Tags:        []string{TagHistory},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := historyRecord(env, "TC-H01")
				if err != nil {
					return err
				}
				if err := openHistory(ctx, env); err != nil {
					return err
				}
				n, err := env.History.RecordCount(ctx)
				if err != nil {
					return err
				}
				env.Logger.InfoContext(ctx, "History records", "count", n)
				return scenario.Check(n >= rec.MinRecords, "record count", "got %d, want at least %d", n, rec.MinRecords)
			},
		},
		{
			Name:        "TC-H-PAGE-04",
			Description: "History header is visible",
			Tags:        []string{TagHistory},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := historyRecord(env, "TC-H01")
				if err != nil {
					return err
				}
				if err := openHistory(ctx, env); err != nil {
					return err
				}
				visible, err := env.History.HeaderVisible(ctx, rec.ExpectedHeader)
				if err != nil {
					return err
				}
				return scenario.Check(visible, "history header visible", "no heading %q", rec.ExpectedHeader)
			},
		},
		{
			Name:        "TC-H-PAGE-05",
			Description: "First history record matches the record count",
			Tags:        []string{TagHistory},
			Run: func(ctx context.Context, env *Env) error {
				rec, err := historyRecord(env, "TC-H01")
				if err != nil {
					return err
				}
				if err := openHistory(ctx, env); err != nil {
					return err
				}
				n, err := env.History.RecordCount(ctx)
				if err != nil {
					return err
				}
				entry, found, err := env.History.FirstRecord(ctx, rec.Columns...)
				if err != nil {
					return err
				}
				if n == 0 {
					return scenario.Check(!found, "empty history has no first record")
				}
				if err := scenario.Check(found, "first record present", "%d rows counted", n); err != nil {
					return err
				}
				return scenario.Check(len(entry.Cells) > 0, "first record has cells")
			},
		},
	}
}

func openHistory(ctx context.Context, env *Env) error {
	if err := signIn(ctx, env); err != nil {
		return err
	}
	return env.History.Open(ctx)
}
