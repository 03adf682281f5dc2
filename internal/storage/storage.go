// Package storage persists the patient registry and the billing ledger in an
// embedded SQLite database.
package storage

import (
	"context"

	"medledger/internal/core"
)

// Store is the persistence boundary consumed by the registry and ledger
// services. Multi-statement writes (bill + initial payment, payment +
// balance/status update) are atomic inside the implementation.
type Store interface {
	// Patients
	InsertPatient(ctx context.Context, p *core.Patient) error
	GetPatient(ctx context.Context, id int64) (*core.Patient, error)
	ListPatients(ctx context.Context) ([]core.Patient, error)
	SearchPatientsByName(ctx context.Context, term string) ([]core.Patient, error)
	SearchPatientsByContact(ctx context.Context, term string) ([]core.Patient, error)
	UpdatePatient(ctx context.Context, p *core.Patient) error
	DeletePatient(ctx context.Context, id int64) error
	PatientStats(ctx context.Context) (core.PatientStats, error)

	// Bills and payments
	CreateBill(ctx context.Context, b *core.Bill, initial *core.Payment) error
	GetBill(ctx context.Context, billNo int64) (*core.Bill, error)
	ListBills(ctx context.Context, onlyOutstanding bool) ([]core.Bill, error)
	RecordPayment(ctx context.Context, p *core.Payment, status core.PaymentStatus) error
	ListPayments(ctx context.Context, billNo int64) ([]core.PaymentRecord, error)
	SumPayments(ctx context.Context, billNo int64) (core.Money, error)
	Aggregate(ctx context.Context) (core.LedgerSummary, error)

	Close() error
}
