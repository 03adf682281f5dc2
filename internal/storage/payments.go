package storage

import (
	"context"
	"fmt"

	"medledger/internal/core"
)

// ListPayments returns payment history joined with patient identity, newest
// first. A billNo of 0 returns the full history.
func (s *SQLiteStore) ListPayments(ctx context.Context, billNo int64) ([]core.PaymentRecord, error) {
	query := `SELECT p.payment_id, p.bill_no, p.amount_cents, p.payment_date,
	                 p.payment_method, b.patient_name
	          FROM payments p
	          JOIN bills b ON p.bill_no = b.bill_no`
	args := []any{}
	if billNo != 0 {
		query += " WHERE p.bill_no = ?"
		args = append(args, billNo)
	}
	query += " ORDER BY p.payment_date DESC, p.payment_id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var records []core.PaymentRecord
	for rows.Next() {
		var (
			rec  core.PaymentRecord
			when string
		)
		if err := rows.Scan(&rec.PaymentID, &rec.BillNo, &rec.Amount.Cents,
			&when, &rec.Method, &rec.PatientName); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if rec.Date, err = parseTime(when); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return records, nil
}

// SumPayments totals the payment rows recorded against one bill. By
// construction this equals the bill's paid_cents.
func (s *SQLiteStore) SumPayments(ctx context.Context, billNo int64) (core.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE bill_no = ?",
		billNo,
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum payments: %w", err)
	}
	return core.Money{Cents: cents}, nil
}
