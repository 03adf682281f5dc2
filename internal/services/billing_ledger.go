package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medledger/internal/core"
	"medledger/internal/storage"
)

// BillingLedger owns bills and their payment history. Every mutation keeps
// paid + balance == total and pairs each paid-amount increment with exactly
// one payment row.
type BillingLedger struct {
	store storage.Store
	now   func() time.Time
}

func NewBillingLedger(store storage.Store) *BillingLedger {
	return &BillingLedger{store: store, now: time.Now}
}

// NewBill carries the operator-supplied fields for CreateBill.
type NewBill struct {
	PatientID     int64
	Charges       core.Charges
	Status        core.PaymentStatus
	InitialPaid   core.Money // consulted only when Status is Partial
	PaymentMethod string
}

// CreateBill generates a bill for an existing patient. The initial paid
// amount follows the chosen status: Paid covers the total, Pending pays
// nothing, Partial pays the supplied amount within [0, total]. When anything
// is paid up front the bill and its first payment are written atomically.
func (l *BillingLedger) CreateBill(ctx context.Context, nb NewBill) (*core.Bill, error) {
	if err := nb.Charges.Validate(); err != nil {
		return nil, err
	}
	if !nb.Status.Valid() {
		return nil, core.Invalidf("payment status", "unknown status %q", string(nb.Status))
	}

	total := nb.Charges.Total()
	var paid core.Money
	switch nb.Status {
	case core.StatusPaid:
		paid = total
	case core.StatusPending:
		paid = core.Money{}
	case core.StatusPartial:
		if nb.InitialPaid.Cents < 0 || nb.InitialPaid.Cents > total.Cents {
			return nil, core.Invalidf("initial paid amount",
				"must be between $0.00 and %s", total)
		}
		paid = nb.InitialPaid
	}

	patient, err := l.store.GetPatient(ctx, nb.PatientID)
	if err != nil {
		return nil, err
	}

	bill := &core.Bill{
		PatientID:   patient.ID,
		PatientName: patient.Name, // snapshot, not re-synced on patient update
		BillDate:    l.now().Format(core.DateFormat),
		Charges:     nb.Charges,
		Total:       total,
		Paid:        paid,
		Balance:     total.Sub(paid),
		Status:      nb.Status,
	}

	var initial *core.Payment
	if paid.Cents > 0 {
		bill.PaymentMethod = strings.TrimSpace(nb.PaymentMethod)
		initial = &core.Payment{
			Amount: paid,
			Date:   l.now(),
			Method: bill.PaymentMethod,
		}
	}

	if err := l.store.CreateBill(ctx, bill, initial); err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	return bill, nil
}

// ApplyPayment records one payment against an open bill. A settled bill
// rejects the attempt outright; the amount must be positive and must not
// exceed the balance due. On success the bill's running totals, its status,
// and the new payment row commit as one transaction.
func (l *BillingLedger) ApplyPayment(ctx context.Context, billNo int64, amount core.Money, method string) (*core.Bill, error) {
	if amount.Cents <= 0 {
		return nil, core.Invalidf("payment amount", "must be positive")
	}

	bill, err := l.store.GetBill(ctx, billNo)
	if err != nil {
		return nil, err
	}
	if bill.Status == core.StatusPaid {
		return nil, fmt.Errorf("bill %d: %w", billNo, core.ErrAlreadySettled)
	}
	if amount.Cents > bill.Balance.Cents {
		return nil, core.Invalidf("payment amount",
			"%s exceeds balance due %s", amount, bill.Balance)
	}

	payment := &core.Payment{
		BillNo: billNo,
		Amount: amount,
		Date:   l.now(),
		Method: strings.TrimSpace(method),
	}
	newBalance := bill.Balance.Sub(amount)
	newStatus := core.NextStatus(newBalance)

	if err := l.store.RecordPayment(ctx, payment, newStatus); err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	bill.Paid = bill.Paid.Add(amount)
	bill.Balance = newBalance
	bill.Status = newStatus
	bill.PaymentMethod = payment.Method
	return bill, nil
}

// GetBill looks up a bill by number.
func (l *BillingLedger) GetBill(ctx context.Context, billNo int64) (*core.Bill, error) {
	return l.store.GetBill(ctx, billNo)
}

// ListBills returns bills newest first; onlyOutstanding restricts the list
// to bills with a balance still due.
func (l *BillingLedger) ListBills(ctx context.Context, onlyOutstanding bool) ([]core.Bill, error) {
	return l.store.ListBills(ctx, onlyOutstanding)
}

// ListPayments returns the payment history for one bill, or for the whole
// ledger when billNo is 0, joined with patient identity for display.
func (l *BillingLedger) ListPayments(ctx context.Context, billNo int64) ([]core.PaymentRecord, error) {
	return l.store.ListPayments(ctx, billNo)
}

// Aggregate summarizes the ledger: bill count, billed, paid, outstanding and
// the collection rate (0 on an empty ledger).
func (l *BillingLedger) Aggregate(ctx context.Context) (core.LedgerSummary, error) {
	return l.store.Aggregate(ctx)
}
