package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
)

type LoginPage struct {
	s    *browser.Session
	data *fixture.Document
}

func NewLoginPage(s *browser.Session, data *fixture.Document) *LoginPage {
	return &LoginPage{s: s, data: data}
}

func (p *LoginPage) username() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleTextbox, "Username", false)
}

func (p *LoginPage) password() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleTextbox, "Password", false)
}

func (p *LoginPage) loginButton() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "Login", false)
}

// userMenu is the profile button in the header; its paragraph holds the display name.
func (p *LoginPage) userMenu() browser.Locator {
	return p.s.ByRole(*playwright.AriaRoleButton, "User", false).First().Within("p")
}

// Open loads the sign-in screen.
func (p *LoginPage) Open(ctx context.Context) error {
	if err := p.s.Navigate(ctx, p.data.URLs().BaseURL); err != nil {
		return fmt.Errorf("opening sign-in screen: %w", err)
	}
	return nil
}

// SignIn submits the credentials and waits until the RX landing page is reached.
func (p *LoginPage) SignIn(ctx context.Context, username, password string) error {
	if err := p.s.Fill(ctx, p.username(), username); err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	if err := p.s.Fill(ctx, p.password(), password); err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	if err := p.s.Click(ctx, p.loginButton()); err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	if err := p.s.WaitURL(ctx, p.data.URLs().RxPagePattern, p.data.Timeout("login")); err != nil {
		return fmt.Errorf("signing in: waiting for landing page: %w", err)
	}
	return p.s.Sleep(ctx, p.data.Timeout("settle"))
}

// OpenAndSignIn opens the sign-in screen and signs in with the fixture credentials.
func (p *LoginPage) OpenAndSignIn(ctx context.Context) error {
	if err := p.Open(ctx); err != nil {
		return err
	}
	login := p.data.Login()
	return p.SignIn(ctx, login.Username, login.Password)
}

// IsAuthenticated reports whether the current URL is inside the doctor area. It never waits.
func (p *LoginPage) IsAuthenticated() bool {
	return CurrentArea(p.s, p.data.URLs()).Authenticated()
}

// CurrentDisplayName returns the name shown in the user menu, or "" if it does not appear.
func (p *LoginPage) CurrentDisplayName(ctx context.Context) (string, error) {
	text, err := p.s.ReadText(ctx, p.userMenu())
	if err != nil {
		return "", fmt.Errorf("reading display name: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (p *LoginPage) LoginFormVisible(ctx context.Context) (bool, error) {
	return p.s.IsVisible(ctx, p.username(), p.data.Timeout("short"))
}
