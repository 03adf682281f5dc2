// Package maintenance provides operator utilities that work on the ledger
// as a whole: database backups, restores, and CSV exports.
package maintenance

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"medledger/internal/core"
)

// Store is the slice of the storage layer the maintenance utilities read.
type Store interface {
	ListPatients(ctx context.Context) ([]core.Patient, error)
	ListBills(ctx context.Context, onlyOutstanding bool) ([]core.Bill, error)
	ListPayments(ctx context.Context, billNo int64) ([]core.PaymentRecord, error)
	BackupTo(ctx context.Context, path string) error
}

// Manager runs backups and exports against a single store.
type Manager struct {
	store     Store
	backupDir string
	exportDir string
	now       func() time.Time
}

func NewManager(store Store, backupDir, exportDir string) *Manager {
	return &Manager{
		store:     store,
		backupDir: backupDir,
		exportDir: exportDir,
		now:       time.Now,
	}
}

const backupTimeFormat = "20060102_150405"

// Backup writes a consistent snapshot of the live database into the backup
// directory and returns the snapshot path.
func (m *Manager) Backup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	path := filepath.Join(m.backupDir,
		fmt.Sprintf("backup_%s.db", m.now().Format(backupTimeFormat)))
	if err := m.store.BackupTo(ctx, path); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	slog.InfoContext(ctx, "Backup written", "path", path)
	return path, nil
}

// ListBackups returns the snapshot files in the backup directory, newest
// first. A missing directory yields an empty list.
func (m *Manager) ListBackups() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.backupDir, "backup_*.db"))
	if err != nil {
		return nil, fmt.Errorf("scanning backup directory: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

// Restore copies a backup snapshot over the live database file. The store
// must be closed before calling this and reopened afterwards.
func (m *Manager) Restore(backupPath, dbPath string) error {
	src, err := os.Open(backupPath)
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dbPath)
	if err != nil {
		return fmt.Errorf("replacing database file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copying backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("flushing database file: %w", err)
	}
	// A restored database may coexist with stale WAL side files from the
	// previous instance. Remove them so SQLite does not replay old frames.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(dbPath + suffix)
	}
	slog.Info("Database restored", "from", backupPath, "to", dbPath)
	return nil
}

// ExportPatients writes the full patient registry as CSV.
func (m *Manager) ExportPatients(ctx context.Context, path string) error {
	patients, err := m.store.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("loading patients: %w", err)
	}
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.Itoa(p.Age),
			p.Gender,
			p.Contact,
			p.Address,
			p.Disease,
			p.AdmissionDate,
		})
	}
	header := []string{"id", "name", "age", "gender", "contact", "address", "disease", "admission_date"}
	return writeCSV(path, header, rows)
}

// ExportBills writes every bill, settled or not, as CSV.
func (m *Manager) ExportBills(ctx context.Context, path string) error {
	bills, err := m.store.ListBills(ctx, false)
	if err != nil {
		return fmt.Errorf("loading bills: %w", err)
	}
	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, []string{
			strconv.FormatInt(b.BillNo, 10),
			strconv.FormatInt(b.PatientID, 10),
			b.PatientName,
			b.BillDate,
			csvAmount(b.Charges.Room),
			csvAmount(b.Charges.Doctor),
			csvAmount(b.Charges.Medicine),
			csvAmount(b.Charges.Lab),
			csvAmount(b.Charges.Other),
			csvAmount(b.Total),
			csvAmount(b.Paid),
			csvAmount(b.Balance),
			string(b.Status),
			b.PaymentMethod,
		})
	}
	header := []string{"bill_no", "patient_id", "patient_name", "bill_date",
		"room", "doctor", "medicine", "lab", "other",
		"total", "paid", "balance", "status", "payment_method"}
	return writeCSV(path, header, rows)
}

// ExportPayments writes the complete payment history as CSV.
func (m *Manager) ExportPayments(ctx context.Context, path string) error {
	payments, err := m.store.ListPayments(ctx, 0)
	if err != nil {
		return fmt.Errorf("loading payments: %w", err)
	}
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			strconv.FormatInt(p.PaymentID, 10),
			strconv.FormatInt(p.BillNo, 10),
			p.PatientName,
			csvAmount(p.Amount),
			p.Method,
			p.Date.Format(core.DateFormat),
		})
	}
	header := []string{"payment_id", "bill_no", "patient_name", "amount", "method", "date"}
	return writeCSV(path, header, rows)
}

// ExportAll writes the three CSV exports concurrently into the export
// directory and returns the written paths.
func (m *Manager) ExportAll(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(m.exportDir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	stamp := m.now().Format(backupTimeFormat)
	paths := []string{
		filepath.Join(m.exportDir, fmt.Sprintf("patients_%s.csv", stamp)),
		filepath.Join(m.exportDir, fmt.Sprintf("bills_%s.csv", stamp)),
		filepath.Join(m.exportDir, fmt.Sprintf("payments_%s.csv", stamp)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.ExportPatients(ctx, paths[0]) })
	g.Go(func() error { return m.ExportBills(ctx, paths[1]) })
	g.Go(func() error { return m.ExportPayments(ctx, paths[2]) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Exports written", "dir", m.exportDir, "files", len(paths))
	return paths, nil
}

// csvAmount renders a money value as a plain decimal, no currency sign.
func csvAmount(m core.Money) string {
	return strconv.FormatFloat(m.Dollars(), 'f', 2, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
