package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/sumitdasdk/DRX-pro/browser"
)

// Accessible names of the patient form, shared by the patient list and the RX page.
const (
	patientNameLabel = "Patient Name"
	patientAgeLabel  = "Years"
	patientPhoneHint = "e.x: 016********"
	submitLabel      = "Submit"
)

type patientForm struct {
	s *browser.Session
}

func (f patientForm) name() browser.Locator {
	return f.s.ByRole(*playwright.AriaRoleTextbox, patientNameLabel, false)
}

func (f patientForm) age() browser.Locator {
	return f.s.ByRole(*playwright.AriaRoleTextbox, patientAgeLabel, false)
}

func (f patientForm) phone() browser.Locator {
	return f.s.ByRole(*playwright.AriaRoleTextbox, patientPhoneHint, false)
}

func (f patientForm) submitButton() browser.Locator {
	return f.s.ByRole(*playwright.AriaRoleButton, submitLabel, false)
}

func (f patientForm) fill(ctx context.Context, name, age, phone string) error {
	if err := f.s.Fill(ctx, f.name(), name); err != nil {
		return fmt.Errorf("filling patient name: %w", err)
	}
	if err := f.s.Fill(ctx, f.age(), age); err != nil {
		return fmt.Errorf("filling patient age: %w", err)
	}
	if err := f.s.Fill(ctx, f.phone(), phone); err != nil {
		return fmt.Errorf("filling patient phone: %w", err)
	}
	return nil
}

func (f patientForm) submit(ctx context.Context) error {
	if err := f.s.Click(ctx, f.submitButton()); err != nil {
		return fmt.Errorf("submitting patient form: %w", err)
	}
	return nil
}

func (f patientForm) visible(ctx context.Context, timeout time.Duration) (bool, error) {
	return f.s.IsVisible(ctx, f.name(), timeout)
}
