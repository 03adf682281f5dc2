// Package services implements the two domain components: the patient
// registry, which owns identity records, and the billing ledger, which owns
// bills and payments and the rules that keep them consistent.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"medledger/internal/core"
	"medledger/internal/storage"
)

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}

// SearchField selects how SearchPatients interprets its term.
type SearchField int

const (
	SearchByName SearchField = iota
	SearchByContact
	SearchByID
)

// PatientRegistry owns patient identity records.
type PatientRegistry struct {
	store storage.Store
	now   func() time.Time
}

func NewPatientRegistry(store storage.Store) *PatientRegistry {
	return &PatientRegistry{store: store, now: time.Now}
}

// NewPatient carries the operator-supplied fields for AddPatient.
type NewPatient struct {
	Name          string
	Age           int
	Gender        string
	Contact       string
	Address       string
	Disease       string
	AdmissionDate string // YYYY-MM-DD, blank or malformed means today
}

// AddPatient validates and persists a new patient, returning its assigned ID.
func (r *PatientRegistry) AddPatient(ctx context.Context, np NewPatient) (int64, error) {
	p := core.Patient{
		Name:          strings.TrimSpace(np.Name),
		Age:           np.Age,
		Gender:        strings.ToUpper(strings.TrimSpace(np.Gender)),
		Contact:       strings.TrimSpace(np.Contact),
		Address:       strings.TrimSpace(np.Address),
		Disease:       strings.TrimSpace(np.Disease),
		AdmissionDate: core.NormalizeAdmissionDate(np.AdmissionDate, r.now()),
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if err := r.store.InsertPatient(ctx, &p); err != nil {
		return 0, fmt.Errorf("add patient: %w", err)
	}
	return p.ID, nil
}

// GetPatient looks up a patient by ID.
func (r *PatientRegistry) GetPatient(ctx context.Context, id int64) (*core.Patient, error) {
	return r.store.GetPatient(ctx, id)
}

// ListPatients returns every patient ordered by name.
func (r *PatientRegistry) ListPatients(ctx context.Context) ([]core.Patient, error) {
	return r.store.ListPatients(ctx)
}

// SearchPatients finds patients by name or contact substring, or by exact ID.
// An empty term on the substring fields matches everything; an ID term that
// is not an integer is a validation error.
func (r *PatientRegistry) SearchPatients(ctx context.Context, field SearchField, term string) ([]core.Patient, error) {
	term = strings.TrimSpace(term)
	switch field {
	case SearchByName:
		return r.store.SearchPatientsByName(ctx, term)
	case SearchByContact:
		return r.store.SearchPatientsByContact(ctx, term)
	case SearchByID:
		id, err := strconv.ParseInt(term, 10, 64)
		if err != nil {
			return nil, core.Invalidf("patient id", "%q is not an integer", term)
		}
		p, err := r.store.GetPatient(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return []core.Patient{*p}, nil
	default:
		return nil, core.Invalidf("search field", "unknown field %d", field)
	}
}

// PatientUpdate carries partial fields for UpdatePatient. Zero values keep
// the current record's value, field by field.
type PatientUpdate struct {
	Name    string
	Age     int
	Gender  string
	Contact string
	Address string
	Disease string
}

// UpdatePatient merges upd into the stored record: blank strings and a zero
// age leave the current values untouched.
func (r *PatientRegistry) UpdatePatient(ctx context.Context, id int64, upd PatientUpdate) error {
	current, err := r.store.GetPatient(ctx, id)
	if err != nil {
		return err
	}

	merged := *current
	if v := strings.TrimSpace(upd.Name); v != "" {
		merged.Name = v
	}
	if upd.Age != 0 {
		merged.Age = upd.Age
	}
	if v := strings.TrimSpace(upd.Gender); v != "" {
		merged.Gender = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(upd.Contact); v != "" {
		merged.Contact = v
	}
	if v := strings.TrimSpace(upd.Address); v != "" {
		merged.Address = v
	}
	if v := strings.TrimSpace(upd.Disease); v != "" {
		merged.Disease = v
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	if err := r.store.UpdatePatient(ctx, &merged); err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

// DeletePatient removes a patient and, through cascade deletion, every bill
// and payment that references it. Irreversible; confirmation is the caller's
// responsibility.
func (r *PatientRegistry) DeletePatient(ctx context.Context, id int64) error {
	if err := r.store.DeletePatient(ctx, id); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Patient and dependent billing records removed", "id", id)
	return nil
}

// Stats summarizes registry demographics.
func (r *PatientRegistry) Stats(ctx context.Context) (core.PatientStats, error) {
	return r.store.PatientStats(ctx)
}
