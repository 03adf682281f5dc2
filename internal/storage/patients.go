package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"medledger/internal/core"
)

const patientColumns = "id, name, age, gender, contact, address, disease, admission_date, created_at"

// InsertPatient persists a new patient and assigns its ID.
func (s *SQLiteStore) InsertPatient(ctx context.Context, p *core.Patient) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO patients (name, age, gender, contact, address, disease, admission_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Age, p.Gender, p.Contact, p.Address, p.Disease,
		p.AdmissionDate, formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("patient insert id: %w", err)
	}
	p.ID = id

	slog.InfoContext(ctx, "Patient added",
		"id", p.ID,
		"name", p.Name,
		"admission_date", p.AdmissionDate)

	return nil
}

// GetPatient retrieves a patient by ID.
func (s *SQLiteStore) GetPatient(ctx context.Context, id int64) (*core.Patient, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+patientColumns+" FROM patients WHERE id = ?", id)

	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("patient %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// ListPatients returns all patients ordered by name.
func (s *SQLiteStore) ListPatients(ctx context.Context) ([]core.Patient, error) {
	return s.queryPatients(ctx,
		"SELECT "+patientColumns+" FROM patients ORDER BY name")
}

// SearchPatientsByName matches names by case-insensitive substring. An empty
// term matches every patient.
func (s *SQLiteStore) SearchPatientsByName(ctx context.Context, term string) ([]core.Patient, error) {
	return s.queryPatients(ctx,
		"SELECT "+patientColumns+` FROM patients WHERE name LIKE ? ESCAPE '\' ORDER BY name`,
		"%"+escapeLike(term)+"%")
}

// SearchPatientsByContact matches contact numbers by substring.
func (s *SQLiteStore) SearchPatientsByContact(ctx context.Context, term string) ([]core.Patient, error) {
	return s.queryPatients(ctx,
		"SELECT "+patientColumns+` FROM patients WHERE contact LIKE ? ESCAPE '\' ORDER BY name`,
		"%"+escapeLike(term)+"%")
}

// UpdatePatient replaces the mutable fields of an existing patient record.
func (s *SQLiteStore) UpdatePatient(ctx context.Context, p *core.Patient) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE patients SET name = ?, age = ?, gender = ?, contact = ?, address = ?, disease = ?
		 WHERE id = ?`,
		p.Name, p.Age, p.Gender, p.Contact, p.Address, p.Disease, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update patient rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("patient %d: %w", p.ID, core.ErrNotFound)
	}
	return nil
}

// DeletePatient removes a patient; bills and payments referencing it go with
// it through the schema's ON DELETE CASCADE.
func (s *SQLiteStore) DeletePatient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM patients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete patient rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("patient %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Patient deleted with cascading bills", "id", id)
	return nil
}

// PatientStats aggregates registry demographics.
func (s *SQLiteStore) PatientStats(ctx context.Context) (core.PatientStats, error) {
	var st core.PatientStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN UPPER(gender) = 'M' THEN 1 END),
		        COUNT(CASE WHEN UPPER(gender) = 'F' THEN 1 END),
		        COALESCE(AVG(age), 0)
		 FROM patients`,
	).Scan(&st.TotalPatients, &st.MalePatients, &st.FemalePatients, &st.AverageAge)
	if err != nil {
		return core.PatientStats{}, fmt.Errorf("patient stats: %w", err)
	}
	return st, nil
}

func (s *SQLiteStore) queryPatients(ctx context.Context, query string, args ...any) ([]core.Patient, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var patients []core.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return patients, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*core.Patient, error) {
	var (
		p         core.Patient
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Contact,
		&p.Address, &p.Disease, &p.AdmissionDate, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = t
	return &p, nil
}
