// Package pages holds the workflow objects of the prescription application.
//
// A workflow object wraps the locators and actions of one area of the application.
// Actions return an error as soon as a primitive fails. Queries are soft: an element
// that does not show up within its budget yields false, "" or 0, and only a broken
// session is reported as an error.
package pages

import (
	"github.com/sumitdasdk/DRX-pro/browser"
	"github.com/sumitdasdk/DRX-pro/fixture"
)

// Area is the part of the application a session currently shows.
type Area int

const (
	// Unauthenticated covers the sign-in screen and anything outside the doctor area.
	Unauthenticated Area = iota
	RX
	Patients
	History
)

func (a Area) String() string {
	switch a {
	case RX:
		return "rx"
	case Patients:
		return "patients"
	case History:
		return "history"
	default:
		return "unauthenticated"
	}
}

// Authenticated reports whether a is one of the doctor areas.
func (a Area) Authenticated() bool {
	return a != Unauthenticated
}

// CurrentArea derives the area from the current URL without waiting.
func CurrentArea(s *browser.Session, urls fixture.URLs) Area {
	return areaOf(s.URL(), urls)
}

func areaOf(url string, urls fixture.URLs) Area {
	switch {
	case url == "":
		return Unauthenticated
	case matches(urls.RxPagePattern, url):
		return RX
	case matches(urls.PatientPagePattern, url), matches(urls.PatientAddPagePattern, url):
		return Patients
	case matches(urls.HistoryPagePattern, url):
		return History
	default:
		return Unauthenticated
	}
}

func matches(pattern, url string) bool {
	return pattern != "" && browser.MatchGlob(pattern, url)
}
