package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"medledger/internal/core"
	"medledger/internal/storage"
)

var testNow = func() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func newTestServices(t *testing.T) (*PatientRegistry, *BillingLedger) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := &PatientRegistry{store: store, now: testNow}
	ledger := &BillingLedger{store: store, now: testNow}
	return registry, ledger
}

func addTestPatient(t *testing.T, registry *PatientRegistry, name, contact string) int64 {
	t.Helper()
	id, err := registry.AddPatient(context.Background(), NewPatient{
		Name:    name,
		Age:     55,
		Gender:  "M",
		Contact: contact,
		Disease: "Fracture",
	})
	if err != nil {
		t.Fatalf("AddPatient failed: %v", err)
	}
	return id
}

func charges(roomCents int64) core.Charges {
	return core.Charges{Room: core.Money{Cents: roomCents}}
}

func TestCreateBill(t *testing.T) {
	registry, ledger := newTestServices(t)
	ctx := context.Background()
	patientID := addTestPatient(t, registry, "Leo Lane", "555-1001")

	t.Run("paid status pays the whole total with one payment", func(t *testing.T) {
		bill, err := ledger.CreateBill(ctx, NewBill{
			PatientID:     patientID,
			Charges:       charges(15000),
			Status:        core.StatusPaid,
			PaymentMethod: "Credit Card",
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.Paid.Cents != 15000 || bill.Balance.Cents != 0 {
			t.Fatalf("expected fully paid bill, got paid=%d balance=%d", bill.Paid.Cents, bill.Balance.Cents)
		}
		if bill.PatientName != "Leo Lane" {
			t.Fatalf("expected name snapshot, got %q", bill.PatientName)
		}
		if bill.BillDate != "2026-08-29" {
			t.Fatalf("unexpected bill date %q", bill.BillDate)
		}

		payments, err := ledger.ListPayments(ctx, bill.BillNo)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 || payments[0].Amount.Cents != 15000 {
			t.Fatalf("expected exactly one payment equal to total, got %+v", payments)
		}
	})

	t.Run("pending status pays nothing", func(t *testing.T) {
		bill, err := ledger.CreateBill(ctx, NewBill{
			PatientID: patientID,
			Charges:   charges(5000),
			Status:    core.StatusPending,
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.Paid.Cents != 0 || bill.Balance.Cents != 5000 || bill.Status != core.StatusPending {
			t.Fatalf("unexpected pending bill: %+v", bill)
		}
		payments, err := ledger.ListPayments(ctx, bill.BillNo)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 0 {
			t.Fatalf("expected no payments, got %d", len(payments))
		}
	})

	t.Run("partial status takes the supplied amount", func(t *testing.T) {
		bill, err := ledger.CreateBill(ctx, NewBill{
			PatientID:     patientID,
			Charges:       charges(10000),
			Status:        core.StatusPartial,
			InitialPaid:   core.Money{Cents: 2500},
			PaymentMethod: "Cash",
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.Paid.Cents != 2500 || bill.Balance.Cents != 7500 {
			t.Fatalf("unexpected partial bill: %+v", bill)
		}
	})

	t.Run("partial amount above total is rejected", func(t *testing.T) {
		_, err := ledger.CreateBill(ctx, NewBill{
			PatientID:   patientID,
			Charges:     charges(10000),
			Status:      core.StatusPartial,
			InitialPaid: core.Money{Cents: 10001},
		})
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown patient is NotFound", func(t *testing.T) {
		_, err := ledger.CreateBill(ctx, NewBill{
			PatientID: 9999,
			Charges:   charges(1000),
			Status:    core.StatusPending,
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("negative charge component is rejected", func(t *testing.T) {
		_, err := ledger.CreateBill(ctx, NewBill{
			PatientID: patientID,
			Charges:   core.Charges{Lab: core.Money{Cents: -100}},
			Status:    core.StatusPending,
		})
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestApplyPayment(t *testing.T) {
	registry, ledger := newTestServices(t)
	ctx := context.Background()
	patientID := addTestPatient(t, registry, "Mia Moss", "555-1002")

	newPendingBill := func(t *testing.T, totalCents int64) *core.Bill {
		t.Helper()
		bill, err := ledger.CreateBill(ctx, NewBill{
			PatientID: patientID,
			Charges:   charges(totalCents),
			Status:    core.StatusPending,
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		return bill
	}

	t.Run("sequential partial payments accumulate", func(t *testing.T) {
		bill := newPendingBill(t, 10000)

		for _, cents := range []int64{3000, 2000} {
			var err error
			bill, err = ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: cents}, "Cash")
			if err != nil {
				t.Fatalf("ApplyPayment(%d) failed: %v", cents, err)
			}
		}

		if bill.Paid.Cents != 5000 || bill.Balance.Cents != 5000 || bill.Status != core.StatusPartial {
			t.Fatalf("unexpected bill after two payments: %+v", bill)
		}
		payments, err := ledger.ListPayments(ctx, bill.BillNo)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 2 {
			t.Fatalf("expected exactly two payment records, got %d", len(payments))
		}
	})

	t.Run("payment covering remainder settles the bill", func(t *testing.T) {
		bill := newPendingBill(t, 8000)

		bill, err := ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: 8000}, "Online Transfer")
		if err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		if bill.Status != core.StatusPaid || bill.Balance.Cents != 0 {
			t.Fatalf("expected settled bill, got %+v", bill)
		}

		_, err = ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: 100}, "Cash")
		if !errors.Is(err, core.ErrAlreadySettled) {
			t.Fatalf("expected ErrAlreadySettled, got %v", err)
		}
	})

	t.Run("payment above balance is rejected without side effect", func(t *testing.T) {
		bill := newPendingBill(t, 20000)
		bill, err := ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: 5000}, "Cash")
		if err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}

		_, err = ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: 15100}, "Cash")
		if !errors.Is(err, core.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}

		got, err := ledger.GetBill(ctx, bill.BillNo)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Paid.Cents != 5000 || got.Balance.Cents != 15000 || got.Status != core.StatusPartial {
			t.Fatalf("bill changed by rejected payment: %+v", got)
		}
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		bill := newPendingBill(t, 1000)
		for _, cents := range []int64{0, -500} {
			if _, err := ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: cents}, "Cash"); !errors.Is(err, core.ErrValidation) {
				t.Fatalf("amount %d: expected validation error, got %v", cents, err)
			}
		}
	})

	t.Run("unknown bill is NotFound", func(t *testing.T) {
		if _, err := ledger.ApplyPayment(ctx, 424242, core.Money{Cents: 100}, "Cash"); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("payment rows reconcile with amount paid", func(t *testing.T) {
		bill := newPendingBill(t, 9000)
		for _, cents := range []int64{4000, 3000, 2000} {
			var err error
			bill, err = ledger.ApplyPayment(ctx, bill.BillNo, core.Money{Cents: cents}, "Debit Card")
			if err != nil {
				t.Fatalf("ApplyPayment(%d) failed: %v", cents, err)
			}
		}

		payments, err := ledger.ListPayments(ctx, bill.BillNo)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		var sum int64
		for _, p := range payments {
			sum += p.Amount.Cents
		}
		if sum != bill.Paid.Cents {
			t.Fatalf("payment rows sum to %d, bill paid is %d", sum, bill.Paid.Cents)
		}
		if bill.Status != core.StatusPaid {
			t.Fatalf("expected settled bill, got %s", bill.Status)
		}
	})
}

func TestAggregate(t *testing.T) {
	registry, ledger := newTestServices(t)
	ctx := context.Background()

	t.Run("empty ledger", func(t *testing.T) {
		s, err := ledger.Aggregate(ctx)
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		if s.TotalBills != 0 || s.CollectionRate != 0 {
			t.Fatalf("expected empty summary, got %+v", s)
		}
	})

	t.Run("summary reconciles against the ledger", func(t *testing.T) {
		patientID := addTestPatient(t, registry, "Nora Nash", "555-1003")
		if _, err := ledger.CreateBill(ctx, NewBill{
			PatientID: patientID, Charges: charges(10000), Status: core.StatusPaid, PaymentMethod: "Cash",
		}); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if _, err := ledger.CreateBill(ctx, NewBill{
			PatientID: patientID, Charges: charges(30000), Status: core.StatusPending,
		}); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		s, err := ledger.Aggregate(ctx)
		if err != nil {
			t.Fatalf("Aggregate failed: %v", err)
		}
		if s.TotalBills != 2 || s.TotalBilled.Cents != 40000 ||
			s.TotalPaid.Cents != 10000 || s.TotalOutstanding.Cents != 30000 {
			t.Fatalf("unexpected summary: %+v", s)
		}
		if s.CollectionRate != 25 {
			t.Fatalf("expected 25%% rate, got %f", s.CollectionRate)
		}
	})
}
