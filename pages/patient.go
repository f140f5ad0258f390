package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
)

type PatientPage struct {
	s    *browser.Session
	data *fixture.Document
	form patientForm
}

func NewPatientPage(s *browser.Session, data *fixture.Document) *PatientPage {
	return &PatientPage{s: s, data: data, form: patientForm{s: s}}
}

func (p *PatientPage) navButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "Patients", true)
}

func (p *PatientPage) createButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "Create Patient", false)
}

func (p *PatientPage) searchField() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleTextbox, "search patient", false)
}

func (p *PatientPage) entry(name string) browser.Locator {
	return p.s.ByText(name, false).First()
}

// Open switches to the patient list through the main navigation.
func (p *PatientPage) Open(ctx context.Context) error {
	if err := p.s.ClickWithin(ctx, p.navButton(), p.data.Timeout("click")); err != nil {
		return fmt.Errorf("opening patients: %w", err)
	}
	if err := p.s.WaitURL(ctx, p.data.URLs().PatientPagePattern, p.data.Timeout("click")); err != nil {
		return fmt.Errorf("opening patients: %w", err)
	}
	return p.s.Sleep(ctx, p.data.Timeout("settle"))
}

// IsOnPatientPage reports whether the list or the creation form is shown. It never waits.
func (p *PatientPage) IsOnPatientPage() bool {
	return CurrentArea(p.s, p.data.URLs()) == Patients
}

// OpenCreateForm opens the patient creation form from the list.
func (p *PatientPage) OpenCreateForm(ctx context.Context) error {
	if err := p.s.ClickWithin(ctx, p.createButton(), p.data.Timeout("click")); err != nil {
		return fmt.Errorf("opening patient form: %w", err)
	}
	if err := p.s.WaitURL(ctx, p.data.URLs().PatientAddPagePattern, p.data.Timeout("click")); err != nil {
		return fmt.Errorf("opening patient form: %w", err)
	}
	return nil
}

// CreatePatient opens the creation form, fills it and submits it.
func (p *PatientPage) CreatePatient(ctx context.Context, name, age, phone string) error {
	if err := p.OpenCreateForm(ctx); err != nil {
		return err
	}
	if err := p.form.fill(ctx, name, age, phone); err != nil {
		return err
	}
	if err := p.form.submit(ctx); err != nil {
		return err
	}
	return p.s.Sleep(ctx, p.data.Timeout("settle"))
}

// Search types name into the list filter and lets the list settle.
func (p *PatientPage) Search(ctx context.Context, name string) error {
	if err := p.s.WaitURL(ctx, p.data.URLs().PatientPagePattern, p.data.Timeout("click")); err != nil {
		return fmt.Errorf("searching patients: %w", err)
	}
	if err := p.s.Fill(ctx, p.searchField(), name); err != nil {
		return fmt.Errorf("searching patients: %w", err)
	}
	return p.s.Sleep(ctx, p.data.Timeout("settle"))
}

// SearchPartial filters by a fragment of a name, e.g. its prefix.
func (p *PatientPage) SearchPartial(ctx context.Context, fragment string) error {
	return p.Search(ctx, fragment)
}

// IsDisplayed reports whether an entry containing name is visible.
func (p *PatientPage) IsDisplayed(ctx context.Context, name string) (bool, error) {
	return p.s.IsVisible(ctx, p.entry(name), p.data.Timeout("short"))
}

func (p *PatientPage) CreateButtonVisible(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.createButton(), p.data.Timeout("default"))
}

func (p *PatientPage) FormVisible(ctx context.Context) (bool, error) {
	return p.form.visible(ctx, p.data.Timeout("short"))
}
