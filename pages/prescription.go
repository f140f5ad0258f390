package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
)

// SavedMessage is the toast shown after a prescription was stored.
const SavedMessage = "Prescription saved"

var chiefComplaintName = regexp.MustCompile(`(?i)chief|complaint|symptoms`)

type PrescriptionPage struct {
	s    *browser.Session
	data *fixture.Document
	form patientForm
}

func NewPrescriptionPage(s *browser.Session, data *fixture.Document) *PrescriptionPage {
	return &PrescriptionPage{s: s, data: data, form: patientForm{s: s}}
}

func (p *PrescriptionPage) navButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "RX", true)
}

// addPatientButton is the slowest element to appear, so it gets the largest budget.
func (p *PrescriptionPage) addPatientButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "Add Patient", false)
}

func (p *PrescriptionPage) chiefComplaint() browser.Locator {
	return p.s.ByRolePattern(*playwright.AriaRoleTextbox, chiefComplaintName)
}

func (p *PrescriptionPage) saveButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "Save", true)
}

func (p *PrescriptionPage) title() browser.Locator {
	return p.s.CSS(`h1, h2, .form-title, [class*="title"]`).First()
}

// Open switches to the RX area through the main navigation.
func (p *PrescriptionPage) Open(ctx context.Context) error {
	if err := p.s.ClickWithin(ctx, p.navButton(), p.data.Timeout("default")); err != nil {
		return fmt.Errorf("opening rx: %w", err)
	}
	if err := p.s.WaitURL(ctx, p.data.URLs().RxPagePattern, p.data.Timeout("default")); err != nil {
		return fmt.Errorf("opening rx: %w", err)
	}
	return nil
}

// IsOnRxPage reports whether the RX area is shown. It never waits.
func (p *PrescriptionPage) IsOnRxPage() bool {
	return CurrentArea(p.s, p.data.URLs()) == RX
}

func (p *PrescriptionPage) AddPatientVisible(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.addPatientButton(), p.data.Timeout("default"))
}

func (p *PrescriptionPage) ClickAddPatient(ctx context.Context) error {
	if err := p.s.ClickWithin(ctx, p.addPatientButton(), p.data.Timeout("addPatient")); err != nil {
		return fmt.Errorf("opening patient form from rx: %w", err)
	}
	return nil
}

// CreatePatientFromRx registers a patient from the RX page, which opens the prescription form.
func (p *PrescriptionPage) CreatePatientFromRx(ctx context.Context, name, age, phone string) error {
	if err := p.ClickAddPatient(ctx); err != nil {
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

func (p *PrescriptionPage) AddChiefComplaint(ctx context.Context, text string) error {
	if err := p.s.Fill(ctx, p.chiefComplaint(), text); err != nil {
		return fmt.Errorf("adding chief complaint: %w", err)
	}
	return nil
}

func (p *PrescriptionPage) ChiefComplaintVisible(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.chiefComplaint(), p.data.Timeout("default"))
}

func (p *PrescriptionPage) SaveVisible(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.saveButton(), p.data.Timeout("default"))
}

// FormDisplayed reports whether the prescription form is open, judged by its Save action.
func (p *PrescriptionPage) FormDisplayed(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.saveButton(), p.data.Timeout("short"))
}

func (p *PrescriptionPage) Save(ctx context.Context) error {
	if err := p.s.ClickWithin(ctx, p.saveButton(), p.data.Timeout("click")); err != nil {
		return fmt.Errorf("saving prescription: %w", err)
	}
	return nil
}

// SavedConfirmation reports whether the save toast appeared.
func (p *PrescriptionPage) SavedConfirmation(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.s.ByText(SavedMessage, false).First(), p.data.Timeout("default"))
}

// FormTitle returns the trimmed heading of the current form, or "".
func (p *PrescriptionPage) FormTitle(ctx context.Context) (string, error) {
	text, err := p.s.ReadText(ctx, p.title())
	if err != nil {
		return "", fmt.Errorf("reading form title: %w", err)
	}
	return strings.TrimSpace(text), nil
}
