package core

// LedgerSummary aggregates the whole bill ledger for reporting.
type LedgerSummary struct {
	TotalBills       int64
	TotalBilled      Money
	TotalPaid        Money
	TotalOutstanding Money
	CollectionRate   float64 // percent collected; 0 when nothing billed
}

// NewLedgerSummary derives the collection rate from the raw aggregates,
// defining it as 0 when nothing has been billed.
func NewLedgerSummary(bills int64, billed, paid, outstanding Money) LedgerSummary {
	s := LedgerSummary{
		TotalBills:       bills,
		TotalBilled:      billed,
		TotalPaid:        paid,
		TotalOutstanding: outstanding,
	}
	if billed.Cents > 0 {
		s.CollectionRate = float64(paid.Cents) / float64(billed.Cents) * 100
	}
	return s
}

// AverageBill is the mean total per bill, zero when the ledger is empty.
func (s LedgerSummary) AverageBill() Money {
	if s.TotalBills == 0 {
		return Money{}
	}
	return Money{Cents: s.TotalBilled.Cents / s.TotalBills}
}

// PatientStats is a compact demographic summary of the registry.
type PatientStats struct {
	TotalPatients  int64
	MalePatients   int64
	FemalePatients int64
	AverageAge     float64
}
