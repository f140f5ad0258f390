package browser

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// Locator is a lazily resolved element query with a description for logs and errors.
// It is re-resolved against the live page on every use.
type Locator struct {
	loc  playwright.Locator
	desc string
}

func (l Locator) String() string {
	return l.desc
}

// Playwright exposes the underlying engine locator.
func (l Locator) Playwright() playwright.Locator {
	return l.loc
}

// Within narrows l to descendants matching a CSS selector.
func (l Locator) Within(selector string) Locator {
	return Locator{
		loc:  l.loc.Locator(selector),
		desc: fmt.Sprintf("%s >> %s", l.desc, selector),
	}
}

// ByRole narrows l to descendants with the given role and accessible name.
func (l Locator) ByRole(role playwright.AriaRole, name string, exact bool) Locator {
	return Locator{
		loc: l.loc.GetByRole(role, playwright.LocatorGetByRoleOptions{
			Name:  name,
			Exact: playwright.Bool(exact),
		}),
		desc: fmt.Sprintf("%s >> %s", l.desc, roleDesc(role, name)),
	}
}

func (l Locator) First() Locator {
	return Locator{loc: l.loc.First(), desc: l.desc + " (first)"}
}

func (l Locator) Nth(i int) Locator {
	return Locator{loc: l.loc.Nth(i), desc: fmt.Sprintf("%s (#%d)", l.desc, i)}
}

// Filter keeps matches whose text contains text.
func (l Locator) Filter(text string) Locator {
	return Locator{
		loc:  l.loc.Filter(playwright.LocatorFilterOptions{HasText: text}),
		desc: fmt.Sprintf("%s with text %q", l.desc, text),
	}
}

// ByRole locates an element by ARIA role and accessible name.
func (s *Session) ByRole(role playwright.AriaRole, name string, exact bool) Locator {
	return Locator{
		loc: s.page.GetByRole(role, playwright.PageGetByRoleOptions{
			Name:  name,
			Exact: playwright.Bool(exact),
		}),
		desc: roleDesc(role, name),
	}
}

// ByRolePattern locates an element by role whose accessible name matches re.
func (s *Session) ByRolePattern(role playwright.AriaRole, re *regexp.Regexp) Locator {
	return Locator{
		loc:  s.page.GetByRole(role, playwright.PageGetByRoleOptions{Name: re}),
		desc: fmt.Sprintf("%s /%s/", role, re),
	}
}

func (s *Session) ByText(text string, exact bool) Locator {
	return Locator{
		loc:  s.page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(exact)}),
		desc: fmt.Sprintf("text %q", text),
	}
}

func (s *Session) CSS(selector string) Locator {
	return Locator{loc: s.page.Locator(selector), desc: selector}
}

func roleDesc(role playwright.AriaRole, name string) string {
	return fmt.Sprintf("%s %q", role, name)
}
