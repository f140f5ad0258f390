package rxapp

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type Patient struct {
	ID      uuid.UUID
	Name    string
	Age     string
	Phone   string
	Created time.Time
}

type Prescription struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	ChiefComplaint string
	Saved          time.Time
}

// HistoryRow is one saved prescription joined with its patient.
type HistoryRow struct {
	Date           time.Time
	Patient        string
	Age            string
	Phone          string
	ChiefComplaint string
}

// Store keeps patients and prescriptions in memory.
type Store struct {
	mu            sync.RWMutex
	patients      map[uuid.UUID]Patient
	prescriptions []Prescription
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		patients: make(map[uuid.UUID]Patient),
		now:      time.Now,
	}
}

func (s *Store) AddPatient(name, age, phone string) Patient {
	p := Patient{
		ID:      uuid.Must(uuid.NewV7()),
		Name:    name,
		Age:     age,
		Phone:   phone,
		Created: s.now(),
	}

	s.mu.Lock()
	s.patients[p.ID] = p
	s.mu.Unlock()

	return p
}

func (s *Store) Patient(id uuid.UUID) (Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	return p, ok
}

// Patients returns the patients whose name contains query (case-insensitive), newest first.
func (s *Store) Patients(query string) []Patient {
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	result := make([]Patient, 0, len(s.patients))
	for _, p := range s.patients {
		if query == "" || strings.Contains(strings.ToLower(p.Name), query) {
			result = append(result, p)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b Patient) int {
		return cmp.Or(b.Created.Compare(a.Created), strings.Compare(a.Name, b.Name))
	})
	return result
}

// SavePrescription stores a prescription for an existing patient.
func (s *Store) SavePrescription(patientID uuid.UUID, chiefComplaint string) (Prescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[patientID]; !ok {
		return Prescription{}, false
	}
	rx := Prescription{
		ID:             uuid.Must(uuid.NewV7()),
		PatientID:      patientID,
		ChiefComplaint: chiefComplaint,
		Saved:          s.now(),
	}
	s.prescriptions = append(s.prescriptions, rx)
	return rx, true
}

// History returns every saved prescription, newest first.
func (s *Store) History() []HistoryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]HistoryRow, 0, len(s.prescriptions))
	for i := len(s.prescriptions) - 1; i >= 0; i-- {
		rx := s.prescriptions[i]
		p := s.patients[rx.PatientID]
		rows = append(rows, HistoryRow{
			Date:           rx.Saved,
			Patient:        p.Name,
			Age:            p.Age,
			Phone:          p.Phone,
			ChiefComplaint: rx.ChiefComplaint,
		})
	}
	return rows
}
