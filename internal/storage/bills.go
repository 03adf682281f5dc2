package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"medledger/internal/core"
)

const billColumns = `bill_no, patient_id, patient_name, bill_date,
	room_cents, doctor_cents, medicine_cents, lab_cents, other_cents,
	total_cents, paid_cents, balance_cents, payment_status, payment_method`

// CreateBill inserts a bill and, when the bill carries an initial paid
// amount, its first payment row. Both inserts commit or roll back together,
// so a bill can never exist with paid_cents > 0 and no matching payment.
func (s *SQLiteStore) CreateBill(ctx context.Context, b *core.Bill, initial *core.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bill transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bills (patient_id, patient_name, bill_date,
		    room_cents, doctor_cents, medicine_cents, lab_cents, other_cents,
		    total_cents, paid_cents, balance_cents, payment_status, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.PatientID, b.PatientName, b.BillDate,
		b.Charges.Room.Cents, b.Charges.Doctor.Cents, b.Charges.Medicine.Cents,
		b.Charges.Lab.Cents, b.Charges.Other.Cents,
		b.Total.Cents, b.Paid.Cents, b.Balance.Cents,
		string(b.Status), b.PaymentMethod,
	)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}

	billNo, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("bill insert id: %w", err)
	}
	b.BillNo = billNo

	if initial != nil {
		initial.BillNo = billNo
		res, err = tx.ExecContext(ctx,
			`INSERT INTO payments (bill_no, amount_cents, payment_date, payment_method)
			 VALUES (?, ?, ?, ?)`,
			initial.BillNo, initial.Amount.Cents, formatTime(initial.Date), initial.Method,
		)
		if err != nil {
			return fmt.Errorf("insert initial payment: %w", err)
		}
		if initial.PaymentID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("payment insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bill transaction: %w", err)
	}

	slog.InfoContext(ctx, "Bill created",
		"bill_no", b.BillNo,
		"patient_id", b.PatientID,
		"total_cents", b.Total.Cents,
		"status", string(b.Status))

	return nil
}

// GetBill retrieves a bill by number.
func (s *SQLiteStore) GetBill(ctx context.Context, billNo int64) (*core.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE bill_no = ?", billNo)

	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %d: %w", billNo, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

// ListBills returns bills ordered by bill number descending, optionally
// restricted to those with a balance still due.
func (s *SQLiteStore) ListBills(ctx context.Context, onlyOutstanding bool) ([]core.Bill, error) {
	query := "SELECT " + billColumns + " FROM bills"
	if onlyOutstanding {
		query += " WHERE balance_cents > 0"
	}
	query += " ORDER BY bill_no DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

// RecordPayment applies one payment as a single transaction: the bill's
// running totals and status move together with the inserted payment row.
// The balance guard in the UPDATE keeps a payment from ever driving
// balance_cents negative, whatever the caller checked.
func (s *SQLiteStore) RecordPayment(ctx context.Context, p *core.Payment, status core.PaymentStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bills
		 SET paid_cents = paid_cents + ?,
		     balance_cents = balance_cents - ?,
		     payment_status = ?,
		     payment_method = ?
		 WHERE bill_no = ? AND balance_cents >= ?`,
		p.Amount.Cents, p.Amount.Cents, string(status), p.Method,
		p.BillNo, p.Amount.Cents,
	)
	if err != nil {
		return fmt.Errorf("update bill balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bill rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %d: %w", p.BillNo, core.ErrNotFound)
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO payments (bill_no, amount_cents, payment_date, payment_method)
		 VALUES (?, ?, ?, ?)`,
		p.BillNo, p.Amount.Cents, formatTime(p.Date), p.Method,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if p.PaymentID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("payment insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment transaction: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"payment_id", p.PaymentID,
		"bill_no", p.BillNo,
		"amount_cents", p.Amount.Cents,
		"status", string(status))

	return nil
}

// Aggregate sums the whole ledger for reporting.
func (s *SQLiteStore) Aggregate(ctx context.Context) (core.LedgerSummary, error) {
	var (
		bills                     int64
		billed, paid, outstanding int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_cents), 0),
		        COALESCE(SUM(paid_cents), 0),
		        COALESCE(SUM(balance_cents), 0)
		 FROM bills`,
	).Scan(&bills, &billed, &paid, &outstanding)
	if err != nil {
		return core.LedgerSummary{}, fmt.Errorf("aggregate bills: %w", err)
	}

	return core.NewLedgerSummary(bills,
		core.Money{Cents: billed},
		core.Money{Cents: paid},
		core.Money{Cents: outstanding}), nil
}

func scanBill(row rowScanner) (*core.Bill, error) {
	var (
		b      core.Bill
		status string
	)
	if err := row.Scan(&b.BillNo, &b.PatientID, &b.PatientName, &b.BillDate,
		&b.Charges.Room.Cents, &b.Charges.Doctor.Cents, &b.Charges.Medicine.Cents,
		&b.Charges.Lab.Cents, &b.Charges.Other.Cents,
		&b.Total.Cents, &b.Paid.Cents, &b.Balance.Cents,
		&status, &b.PaymentMethod); err != nil {
		return nil, err
	}
	b.Status = core.PaymentStatus(status)
	return &b, nil
}
