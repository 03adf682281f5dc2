package services

import (
	"context"
	"errors"
	"testing"

	"medledger/internal/core"
)

func TestAddPatient(t *testing.T) {
	registry, _ := newTestServices(t)
	ctx := context.Background()

	t.Run("valid patient gets an id", func(t *testing.T) {
		id, err := registry.AddPatient(ctx, NewPatient{
			Name:          "Olga Orr",
			Age:           34,
			Gender:        "f",
			Contact:       "555-2001",
			AdmissionDate: "2026-08-10",
		})
		if err != nil {
			t.Fatalf("AddPatient failed: %v", err)
		}
		if id == 0 {
			t.Fatal("expected assigned id")
		}

		p, err := registry.GetPatient(ctx, id)
		if err != nil {
			t.Fatalf("GetPatient failed: %v", err)
		}
		if p.Gender != "F" {
			t.Fatalf("expected normalized gender, got %q", p.Gender)
		}
		if p.AdmissionDate != "2026-08-10" {
			t.Fatalf("unexpected admission date %q", p.AdmissionDate)
		}
	})

	t.Run("blank or malformed admission date becomes today", func(t *testing.T) {
		for _, date := range []string{"", "10/08/2026", "2026-8-9"} {
			id, err := registry.AddPatient(ctx, NewPatient{Name: "Pat Page", Age: 20, AdmissionDate: date})
			if err != nil {
				t.Fatalf("AddPatient(%q) failed: %v", date, err)
			}
			p, err := registry.GetPatient(ctx, id)
			if err != nil {
				t.Fatalf("GetPatient failed: %v", err)
			}
			if p.AdmissionDate != "2026-08-29" {
				t.Fatalf("date %q: expected today, got %q", date, p.AdmissionDate)
			}
		}
	})

	t.Run("constraint violations are validation errors", func(t *testing.T) {
		cases := []NewPatient{
			{Name: "", Age: 30},
			{Name: "Quinn Quill", Age: 0},
			{Name: "Quinn Quill", Age: 121},
		}
		for i, np := range cases {
			if _, err := registry.AddPatient(ctx, np); !errors.Is(err, core.ErrValidation) {
				t.Fatalf("case %d: expected validation error, got %v", i, err)
			}
		}
	})

	t.Run("duplicate contact is a storage error", func(t *testing.T) {
		if _, err := registry.AddPatient(ctx, NewPatient{Name: "Rita Reed", Age: 41, Contact: "555-2001"}); err == nil {
			t.Fatal("expected error for duplicate contact")
		}
	})
}

func TestSearchPatients(t *testing.T) {
	registry, _ := newTestServices(t)
	ctx := context.Background()

	id := addTestPatient(t, registry, "Sam Stone", "555-2101")
	addTestPatient(t, registry, "Tina Stone", "555-2102")
	addTestPatient(t, registry, "Uma Vale", "555-2103")

	t.Run("name substring, case-insensitive", func(t *testing.T) {
		got, err := registry.SearchPatients(ctx, SearchByName, "stone")
		if err != nil {
			t.Fatalf("SearchPatients failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(got))
		}
	})

	t.Run("contact substring", func(t *testing.T) {
		got, err := registry.SearchPatients(ctx, SearchByContact, "2103")
		if err != nil {
			t.Fatalf("SearchPatients failed: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Uma Vale" {
			t.Fatalf("unexpected results: %+v", got)
		}
	})

	t.Run("empty term matches all", func(t *testing.T) {
		got, err := registry.SearchPatients(ctx, SearchByName, "")
		if err != nil {
			t.Fatalf("SearchPatients failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(got))
		}
	})

	t.Run("id is exact match", func(t *testing.T) {
		got, err := registry.SearchPatients(ctx, SearchByID, "1")
		if err != nil {
			t.Fatalf("SearchPatients failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != id {
			t.Fatalf("unexpected results: %+v", got)
		}

		got, err = registry.SearchPatients(ctx, SearchByID, "9999")
		if err != nil {
			t.Fatalf("SearchPatients failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no matches, got %+v", got)
		}
	})

	t.Run("non-integer id term is a validation error", func(t *testing.T) {
		if _, err := registry.SearchPatients(ctx, SearchByID, "abc"); !errors.Is(err, core.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestUpdatePatient(t *testing.T) {
	registry, _ := newTestServices(t)
	ctx := context.Background()
	id := addTestPatient(t, registry, "Vic Wade", "555-2201")

	t.Run("blank fields keep current values", func(t *testing.T) {
		if err := registry.UpdatePatient(ctx, id, PatientUpdate{Address: "7 Oak Ave"}); err != nil {
			t.Fatalf("UpdatePatient failed: %v", err)
		}

		p, err := registry.GetPatient(ctx, id)
		if err != nil {
			t.Fatalf("GetPatient failed: %v", err)
		}
		if p.Address != "7 Oak Ave" {
			t.Fatalf("address not updated: %q", p.Address)
		}
		if p.Name != "Vic Wade" || p.Age != 55 || p.Contact != "555-2201" {
			t.Fatalf("untouched fields changed: %+v", p)
		}
	})

	t.Run("out-of-range age is rejected", func(t *testing.T) {
		if err := registry.UpdatePatient(ctx, id, PatientUpdate{Age: 150}); !errors.Is(err, core.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("missing patient is NotFound", func(t *testing.T) {
		if err := registry.UpdatePatient(ctx, 9999, PatientUpdate{Name: "Nobody"}); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeletePatientCascades(t *testing.T) {
	registry, ledger := newTestServices(t)
	ctx := context.Background()
	id := addTestPatient(t, registry, "Wes Young", "555-2301")

	first, err := ledger.CreateBill(ctx, NewBill{
		PatientID: id, Charges: charges(20000), Status: core.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	second, err := ledger.CreateBill(ctx, NewBill{
		PatientID: id, Charges: charges(5000), Status: core.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	for _, cents := range []int64{1000, 2000, 3000} {
		if _, err := ledger.ApplyPayment(ctx, first.BillNo, core.Money{Cents: cents}, "Cash"); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
	}

	if err := registry.DeletePatient(ctx, id); err != nil {
		t.Fatalf("DeletePatient failed: %v", err)
	}

	for _, billNo := range []int64{first.BillNo, second.BillNo} {
		if _, err := ledger.GetBill(ctx, billNo); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("bill %d survived cascade: %v", billNo, err)
		}
	}
	payments, err := ledger.ListPayments(ctx, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("payments survived cascade: %+v", payments)
	}

	if err := registry.DeletePatient(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
