// Package fixture loads the static test-data document that drives the suite
// and generates the time-derived identifiers used for records created in the
// application under test.
package fixture

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrDataUnavailable is returned when the fixture document is absent, unreadable or malformed.
	ErrDataUnavailable = errors.New("fixture data unavailable")
	// ErrSectionMissing is returned when a named top-level section does not exist.
	ErrSectionMissing = errors.New("fixture section missing")
	// ErrIncompleteRecord is returned by Validate for records lacking a required field.
	ErrIncompleteRecord = errors.New("fixture record incomplete")
)

// Section names of the fixture document.
const (
	SectionLogin        = "login"
	SectionURLs         = "urls"
	SectionTimeouts     = "timeouts"
	SectionPatient      = "patient"
	SectionPrescription = "prescription"
	SectionHistory      = "history"
)

// DefaultTimeout is returned by Document.Timeout for names the document does not define.
const DefaultTimeout = 10 * time.Second

type Login struct {
	Username            string `yaml:"username"`
	Password            string `yaml:"password"`
	ExpectedDisplayName string `yaml:"expectedDisplayName"`

	// Older fixture files name the display name after the doctor.
	ExpectedDoctorName string `yaml:"expectedDoctorName"`
}

type URLs struct {
	BaseURL               string `yaml:"baseUrl"`
	RxPagePattern         string `yaml:"rxPagePattern"`
	PatientPagePattern    string `yaml:"patientPagePattern"`
	PatientAddPagePattern string `yaml:"patientAddPagePattern"`
	HistoryPagePattern    string `yaml:"historyPagePattern"`
}

// PatientRecord holds the literal values for one patient scenario.
type PatientRecord struct {
	Name        string `yaml:"name"`
	Age         string `yaml:"age"`
	PhonePrefix string `yaml:"phonePrefix"`
}

// PrescriptionRecord holds the literal values for one prescription scenario.
type PrescriptionRecord struct {
	PatientNamePrefix string `yaml:"patientNamePrefix"`
	Age               string `yaml:"age"`
	PhonePrefix       string `yaml:"phonePrefix"`
	ChiefComplaint    string `yaml:"chiefComplaint"`
}

// HistoryRecord describes what a history scenario expects to observe.
type HistoryRecord struct {
	ExpectedHeader string   `yaml:"expectedHeader"`
	Columns        []string `yaml:"columns"`
	MinRecords     int      `yaml:"minRecords"`
}

type document struct {
	Login        Login                         `yaml:"login"`
	URLs         URLs                          `yaml:"urls"`
	Timeouts     map[string]int                `yaml:"timeouts"`
	Patient      map[string]PatientRecord      `yaml:"patient"`
	Prescription map[string]PrescriptionRecord `yaml:"prescription"`
	History      map[string]HistoryRecord      `yaml:"history"`
}

// Document is an immutable snapshot of the fixture file.
// All accessors return copies, so readers in concurrent scenarios observe the same values.
type Document struct {
	doc      document
	sections map[string]map[string]any
	source   string
}

// Load reads the fixture document at path.
// The JSON fixture file is decoded with the YAML decoder, so YAML fixtures work as well.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, err
	}
	d.source = path
	return d, nil
}

// Parse decodes a fixture document from raw bytes.
func Parse(data []byte) (*Document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %w", ErrDataUnavailable, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding sections: %w", ErrDataUnavailable, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrDataUnavailable)
	}

	sections := make(map[string]map[string]any, len(raw))
	for name, value := range raw {
		section, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: section %q is not a mapping", ErrDataUnavailable, name)
		}
		sections[name] = section
	}

	if doc.Login.ExpectedDisplayName == "" {
		doc.Login.ExpectedDisplayName = doc.Login.ExpectedDoctorName
	}

	return &Document{doc: doc, sections: sections}, nil
}

// Source returns the path the document was loaded from, or "" when parsed from memory.
func (d *Document) Source() string {
	return d.source
}

// Section returns the named top-level mapping.
func (d *Document) Section(name string) (map[string]any, error) {
	section, ok := d.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionMissing, name)
	}
	return cloneMap(section), nil
}

// Scenario returns the raw record for id within section.
// It never fails: a missing section or id yields false and callers must check it.
func (d *Document) Scenario(section, id string) (map[string]any, bool) {
	s, ok := d.sections[section]
	if !ok {
		return nil, false
	}
	record, ok := s[id].(map[string]any)
	if !ok {
		return nil, false
	}
	return cloneMap(record), true
}

// cloneMap copies m together with every nested map and slice, so callers never share
// storage with the loaded document.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = cloneValue(v)
	}
	return cp
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		cp := make([]any, len(v))
		for i, item := range v {
			cp[i] = cloneValue(item)
		}
		return cp
	default:
		return v
	}
}

func (d *Document) Login() Login {
	return d.doc.Login
}

func (d *Document) URLs() URLs {
	return d.doc.URLs
}

// Timeout returns the named timeout budget, or DefaultTimeout if the document does not define it.
func (d *Document) Timeout(name string) time.Duration {
	ms, ok := d.doc.Timeouts[name]
	if !ok || ms <= 0 {
		return DefaultTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

func (d *Document) Patient(id string) (PatientRecord, bool) {
	r, ok := d.doc.Patient[id]
	return r, ok
}

func (d *Document) Prescription(id string) (PrescriptionRecord, bool) {
	r, ok := d.doc.Prescription[id]
	return r, ok
}

func (d *Document) History(id string) (HistoryRecord, bool) {
	r, ok := d.doc.History[id]
	if ok {
		r.Columns = append([]string(nil), r.Columns...)
	}
	return r, ok
}

// WithBaseURL returns a copy of the document pointing at a different deployment.
// The receiver is left untouched.
func (d *Document) WithBaseURL(baseURL string) *Document {
	cp := *d
	cp.doc.URLs.BaseURL = baseURL

	cp.sections = maps.Clone(d.sections)
	if urls, ok := cp.sections[SectionURLs]; ok {
		urls = maps.Clone(urls)
		urls["baseUrl"] = baseURL
		cp.sections[SectionURLs] = urls
	}
	return &cp
}

// Validate reports every record that lacks a field its workflow operation needs.
func (d *Document) Validate() error {
	var errs []error

	missing := func(where, field, value string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%w: %s: %s is empty", ErrIncompleteRecord, where, field))
		}
	}

	for _, name := range []string{SectionLogin, SectionURLs, SectionTimeouts, SectionPatient, SectionPrescription, SectionHistory} {
		if _, ok := d.sections[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrSectionMissing, name))
		}
	}

	missing(SectionLogin, "username", d.doc.Login.Username)
	missing(SectionLogin, "password", d.doc.Login.Password)
	missing(SectionLogin, "expectedDisplayName", d.doc.Login.ExpectedDisplayName)

	missing(SectionURLs, "baseUrl", d.doc.URLs.BaseURL)
	missing(SectionURLs, "rxPagePattern", d.doc.URLs.RxPagePattern)
	missing(SectionURLs, "patientPagePattern", d.doc.URLs.PatientPagePattern)
	missing(SectionURLs, "patientAddPagePattern", d.doc.URLs.PatientAddPagePattern)
	missing(SectionURLs, "historyPagePattern", d.doc.URLs.HistoryPagePattern)

	for _, id := range sortedKeys(d.doc.Patient) {
		r := d.doc.Patient[id]
		where := SectionPatient + "." + id
		missing(where, "name", r.Name)
		missing(where, "age", r.Age)
		missing(where, "phonePrefix", r.PhonePrefix)
	}

	for _, id := range sortedKeys(d.doc.Prescription) {
		r := d.doc.Prescription[id]
		where := SectionPrescription + "." + id
		missing(where, "patientNamePrefix", r.PatientNamePrefix)
		missing(where, "age", r.Age)
		missing(where, "phonePrefix", r.PhonePrefix)
		missing(where, "chiefComplaint", r.ChiefComplaint)
	}

	for _, id := range sortedKeys(d.doc.History) {
		r := d.doc.History[id]
		where := SectionHistory + "." + id
		missing(where, "expectedHeader", r.ExpectedHeader)
		if len(r.Columns) == 0 {
			errs = append(errs, fmt.Errorf("%w: %s: columns is empty", ErrIncompleteRecord, where))
		}
		if r.MinRecords < 0 {
			errs = append(errs, fmt.Errorf("%w: %s: minRecords is negative", ErrIncompleteRecord, where))
		}
	}

	return errors.Join(errs...)
}

// IDs returns the sorted scenario ids of a section.
func (d *Document) IDs(section string) []string {
	return sortedKeys(d.sections[section])
}
