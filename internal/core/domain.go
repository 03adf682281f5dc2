package core

import (
	"strings"
	"time"
)

// PaymentStatus tracks how much of a bill has been collected.
// Paid is terminal: a settled bill accepts no further payments.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusPending PaymentStatus = "Pending"
	StatusPartial PaymentStatus = "Partial"
)

// Valid reports whether s is one of the three known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusPartial:
		return true
	}
	return false
}

// NextStatus returns the status a bill takes once a payment leaves it with
// the given balance due.
func NextStatus(balance Money) PaymentStatus {
	if balance.Cents <= 0 {
		return StatusPaid
	}
	return StatusPartial
}

const (
	// DateFormat is the on-record shape of admission and bill dates.
	DateFormat = "2006-01-02"

	minAge = 1
	maxAge = 120
)

type (
	// Patient is an identity record. The ID is assigned on insert and never
	// changes afterward.
	Patient struct {
		ID            int64
		Name          string
		Age           int
		Gender        string
		Contact       string
		Address       string
		Disease       string
		AdmissionDate string // YYYY-MM-DD
		CreatedAt     time.Time
	}

	// Charges is the five-way breakdown of a bill. Every component must be
	// non-negative.
	Charges struct {
		Room     Money
		Doctor   Money
		Medicine Money
		Lab      Money
		Other    Money
	}

	// Bill is the financial record for one patient encounter. The patient
	// name is a snapshot taken at creation and is not re-synced when the
	// patient record changes. Total is computed once; Paid and Balance move
	// together so that Paid + Balance == Total at every observable point.
	Bill struct {
		BillNo        int64
		PatientID     int64
		PatientName   string
		BillDate      string // YYYY-MM-DD
		Charges       Charges
		Total         Money
		Paid          Money
		Balance       Money
		Status        PaymentStatus
		PaymentMethod string // most recent (or initial) payment channel
	}

	// Payment is an immutable ledger entry for one payment event. Rows are
	// only ever inserted; they disappear solely through cascade deletion of
	// the parent bill.
	Payment struct {
		PaymentID int64
		BillNo    int64
		Amount    Money
		Date      time.Time
		Method    string
	}

	// PaymentRecord is a payment joined with the billed patient's name for
	// display.
	PaymentRecord struct {
		Payment
		PatientName string
	}
)

// Validate checks the registry constraints for a patient record.
func (p Patient) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalidf("name", "must not be blank")
	}
	if p.Age < minAge || p.Age > maxAge {
		return Invalidf("age", "must be between %d and %d", minAge, maxAge)
	}
	return nil
}

// NormalizeAdmissionDate returns s when it is an exact YYYY-MM-DD date and
// today's date otherwise. Malformed input is replaced silently rather than
// rejected, matching the registry's add-patient contract.
func NormalizeAdmissionDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		if _, err := time.Parse(DateFormat, s); err == nil {
			return s
		}
	}
	return now.Format(DateFormat)
}

// Validate rejects any negative charge component.
func (c Charges) Validate() error {
	components := []struct {
		name   string
		amount Money
	}{
		{"room charges", c.Room},
		{"doctor fees", c.Doctor},
		{"medicine charges", c.Medicine},
		{"lab charges", c.Lab},
		{"other charges", c.Other},
	}
	for _, comp := range components {
		if comp.amount.Cents < 0 {
			return Invalidf(comp.name, "must not be negative")
		}
	}
	return nil
}

// Total sums the five components. It is computed exactly once, at bill
// creation.
func (c Charges) Total() Money {
	return Money{Cents: c.Room.Cents + c.Doctor.Cents + c.Medicine.Cents +
		c.Lab.Cents + c.Other.Cents}
}

// Outstanding reports whether any balance remains due on the bill.
func (b Bill) Outstanding() bool {
	return b.Balance.Cents > 0
}
