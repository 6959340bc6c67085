package memory

import (
	"context"
	"strings"
	"sync"

	"discharge-assist-be/pkg/store"
)

// PatientDirectory is an in-memory patient lookup used when no database
// is configured. Records are loaded once at startup.
type PatientDirectory struct {
	mu      sync.RWMutex
	records []*store.PatientRecord
}

func NewPatientDirectory() *PatientDirectory {
	return &PatientDirectory{}
}

func (d *PatientDirectory) Add(record *store.PatientRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, record)
}

func (d *PatientDirectory) FindByName(ctx context.Context, name string) ([]*store.PatientRecord, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var matches []*store.PatientRecord
	for _, r := range d.records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

func (d *PatientDirectory) GetByID(ctx context.Context, id string) (*store.PatientRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, r := range d.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}
