package browser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/sumitdasdk/DRX-pro/browser"
)

func TestMatchGlob(t *testing.T) {
	const base = "http://digital-rx-pro.s3-website-us-east-1.amazonaws.com"

	tests := []struct {
		pattern string
		url     string
		want    bool
	}{
		{"**/doctor/rx**", base + "/doctor/rx", true},
		{"**/doctor/rx**", base + "/doctor/rx/add", true},
		{"**/doctor/rx**", base + "/doctor/patient", false},
		{"**/doctor/patient", base + "/doctor/patient", true},
		{"**/doctor/patient", base + "/doctor/patient/add", false},
		{"**/doctor/patient/add", base + "/doctor/patient/add", true},
		{"**/doctor/history**", base + "/doctor/history/", true},
		{"**/doctor/history**", base + "/", false},
		{"**/doctor/*/add", base + "/doctor/patient/add", true},
		{"**/doctor/*/add", base + "/doctor/rx/patient/add", false},
		{"**/doctor/{rx,patient}", base + "/doctor/rx", true},
		{"**/doctor/{rx,patient}", base + "/doctor/history", false},
		{"**/search?q=*", base + "/search?q=alice", true},
		{"**/doctor/rx**", "", false},
		{"**/a{b", base + "/a{b", false},
		{"**/a{b", "**/a{b", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, browser.MatchGlob(tt.pattern, tt.url))
		})
	}
}

func TestMatchGlob_Properties(t *testing.T) {
	segment := rapid.StringMatching(`[a-z0-9.-]{1,12}`)

	rapid.Check(t, func(t *rapid.T) {
		segs := rapid.SliceOfN(segment, 1, 6).Draw(t, "segs")
		url := "http://host/" + strings.Join(segs, "/")

		if !browser.MatchGlob(url, url) {
			t.Fatalf("literal pattern must match itself: %q", url)
		}
		if !browser.MatchGlob("**", url) {
			t.Fatalf("** must match everything: %q", url)
		}
		last := segs[len(segs)-1]
		if !browser.MatchGlob("**/"+last, url) {
			t.Fatalf("**/%s must match %q", last, url)
		}
		if browser.MatchGlob("**/"+last+"/*/Z", url) {
			t.Fatalf("extra segments cannot match %q", url)
		}
	})
}
