package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumitdasdk/DRX-pro/fixture"
)

func repositoryURLs(t *testing.T) fixture.URLs {
	t.Helper()
	doc, err := fixture.Load(fixture.RepositoryPath())
	require.NoError(t, err)
	return doc.URLs()
}

func TestAreaOf(t *testing.T) {
	urls := repositoryURLs(t)
	base := "http://127.0.0.1:8080"

	tests := []struct {
		url  string
		want Area
	}{
		{"", Unauthenticated},
		{base + "/", Unauthenticated},
		{base + "/doctor/rx", RX},
		{base + "/doctor/rx/patient/42", RX},
		{base + "/doctor/patient", Patients},
		{base + "/doctor/patient/add", Patients},
		{base + "/doctor/history/", History},
		{base + "/doctor/settings", Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := areaOf(tt.url, urls)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != Unauthenticated, got.Authenticated())
		})
	}
}

func TestAreaOf_EmptyPatternsNeverMatch(t *testing.T) {
	assert.Equal(t, Unauthenticated, areaOf("http://x/doctor/rx", fixture.URLs{}))
}

func TestArea_String(t *testing.T) {
	assert.Equal(t, "rx", RX.String())
	assert.Equal(t, "patients", Patients.String())
	assert.Equal(t, "history", History.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}

func TestNewHistoryEntry(t *testing.T) {
	columns := []string{"Date", "Patient", "Age", "Phone", "Chief Complaint"}

	entry := newHistoryEntry([]string{" 2026-03-14 ", "Alice_143210", "34", "0171234210", "Cough\n"}, columns)

	assert.Equal(t, "2026-03-14", entry.Field("Date"))
	assert.Equal(t, "Alice_143210", entry.Field("Patient"))
	assert.Equal(t, "Cough", entry.Field("Chief Complaint"))
	assert.Len(t, entry.Cells, 5)

	short := newHistoryEntry([]string{"2026-03-14"}, columns)
	assert.Equal(t, "2026-03-14", short.Field("Date"))
	assert.Empty(t, short.Field("Patient"), "missing cells map to empty fields")

	extra := newHistoryEntry([]string{"a", "b", "c"}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, extra.Cells)
	assert.Empty(t, extra.Fields)
}
