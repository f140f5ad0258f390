//go:build acceptance
// +build acceptance

package acceptance

import (
	"log"
	"os"
	"testing"

	"github.com/sumitdasdk/DRX-pro/browser"
)

// TestMain installs Playwright browsers before running tests.
func TestMain(m *testing.M) {
	if err := browser.Install("chromium"); err != nil {
		log.Fatalf("could not install playwright: %v", err)
	}
	os.Exit(m.Run())
}
