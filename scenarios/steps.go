package scenarios

import (
	"context"
	"strings"

	"github.com/sumitdasdk/DRX-pro/fixture"
	"github.com/sumitdasdk/DRX-pro/scenario"
)

// signIn opens the application and signs in with the fixture credentials.
func signIn(ctx context.Context, env *Env) error {
	login := env.Data.Login()
	if err := scenario.Require(login.Username != "" && login.Password != "", "login credentials"); err != nil {
		return err
	}
	if err := env.Login.Open(ctx); err != nil {
		return err
	}
	return env.Login.SignIn(ctx, login.Username, login.Password)
}

func signInToPatients(ctx context.Context, env *Env) error {
	if err := signIn(ctx, env); err != nil {
		return err
	}
	return env.Patients.Open(ctx)
}

func patientRecord(env *Env, id string) (fixture.PatientRecord, error) {
	rec, ok := env.Data.Patient(id)
	return rec, scenario.Require(ok, fixture.SectionPatient+"."+id)
}

func prescriptionRecord(env *Env, id string) (fixture.PrescriptionRecord, error) {
	rec, ok := env.Data.Prescription(id)
	return rec, scenario.Require(ok, fixture.SectionPrescription+"."+id)
}

func historyRecord(env *Env, id string) (fixture.HistoryRecord, error) {
	rec, ok := env.Data.History(id)
	return rec, scenario.Require(ok, fixture.SectionHistory+"."+id)
}

// createPatient registers a uniquely named patient from a fixture record and returns its name.
func createPatient(ctx context.Context, env *Env, rec fixture.PatientRecord) (string, error) {
	name := env.Names.UniqueName(rec.Name)
	phone := env.Names.PhoneSuffix(rec.PhonePrefix)
	if err := env.Patients.CreatePatient(ctx, name, rec.Age, phone); err != nil {
		return "", err
	}
	env.Logger.InfoContext(ctx, "Created patient", "name", name, "phone", phone)
	return name, nil
}

// openRxForm signs in and registers a patient from the RX page, landing on the prescription form.
func openRxForm(ctx context.Context, env *Env, id string) (fixture.PrescriptionRecord, error) {
	rec, err := prescriptionRecord(env, id)
	if err != nil {
		return rec, err
	}
	if err := signIn(ctx, env); err != nil {
		return rec, err
	}
	name := env.Names.UniqueName(rec.PatientNamePrefix)
	phone := env.Names.PhoneSuffix(rec.PhonePrefix)
	if err := env.Rx.CreatePatientFromRx(ctx, name, rec.Age, phone); err != nil {
		return rec, err
	}
	env.Logger.InfoContext(ctx, "Created patient from rx", "name", name, "phone", phone)
	return rec, nil
}

// prefix returns the part of name before its generated time suffix.
func prefix(name string) string {
	if i := strings.LastIndexByte(name, '_'); i > 0 {
		return name[:i]
	}
	return name
}
