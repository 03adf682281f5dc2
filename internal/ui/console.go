// Package ui implements the interactive text console the operator drives.
// It owns no business rules: every action delegates to the registry, the
// ledger, or the maintenance manager and renders whatever comes back.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"medledger/internal/cli"
	"medledger/internal/core"
	"medledger/internal/services"
)

// Console runs the main menu loop over a line-based reader and writer.
type Console struct {
	app *cli.App
	in  *bufio.Reader
	out io.Writer
}

func New(app *cli.App, in io.Reader, out io.Writer) *Console {
	return &Console{app: app, in: bufio.NewReader(in), out: out}
}

const line = "════════════════════════════════════════════════════"

// Run drives the menu until the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "\n========================================")
	fmt.Fprintln(c.out, "   HOSPITAL PATIENT BILLING SYSTEM")
	fmt.Fprintln(c.out, "========================================")

	for {
		c.printMenu()
		choice, err := c.promptInt("\nEnter choice (0-16): ", 0, 16)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if choice == 0 {
			fmt.Fprintln(c.out, "\nThank you for using Hospital Billing System!")
			return nil
		}
		if err := c.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprintf(c.out, "\n%s\n", line)
	fmt.Fprintln(c.out, "           HOSPITAL BILLING SYSTEM - MAIN MENU")
	fmt.Fprintln(c.out, line)
	fmt.Fprintln(c.out, "   1.  Add New Patient")
	fmt.Fprintln(c.out, "   2.  View All Patients")
	fmt.Fprintln(c.out, "   3.  Search Patient")
	fmt.Fprintln(c.out, "   4.  Update Patient Information")
	fmt.Fprintln(c.out, "   5.  Delete Patient Record")
	fmt.Fprintln(c.out, "   6.  Generate New Bill")
	fmt.Fprintln(c.out, "   7.  View All Bills")
	fmt.Fprintln(c.out, "   8.  Search Bill")
	fmt.Fprintln(c.out, "   9.  Make Payment")
	fmt.Fprintln(c.out, "   10. View Payment History")
	fmt.Fprintln(c.out, "   11. Print Receipt")
	fmt.Fprintln(c.out, "   12. Generate Financial Report")
	fmt.Fprintln(c.out, "   13. View Statistics")
	fmt.Fprintln(c.out, "   14. Backup Database")
	fmt.Fprintln(c.out, "   15. Restore Database")
	fmt.Fprintln(c.out, "   16. Export Data")
	fmt.Fprintln(c.out, "\n   0.  Exit")
	fmt.Fprintln(c.out, line)
}

func (c *Console) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case 1:
		return c.addPatient(ctx)
	case 2:
		return c.viewPatients(ctx)
	case 3:
		return c.searchPatient(ctx)
	case 4:
		return c.updatePatient(ctx)
	case 5:
		return c.deletePatient(ctx)
	case 6:
		return c.generateBill(ctx)
	case 7:
		return c.viewBills(ctx)
	case 8:
		return c.searchBill(ctx)
	case 9:
		return c.makePayment(ctx)
	case 10:
		return c.paymentHistory(ctx)
	case 11:
		return c.printReceipt(ctx)
	case 12:
		return c.financialReport(ctx)
	case 13:
		return c.statistics(ctx)
	case 14:
		return c.backupDatabase(ctx)
	case 15:
		return c.restoreDatabase(ctx)
	case 16:
		return c.exportData(ctx)
	}
	return nil
}

// reportErr prints a domain error and swallows it so the menu keeps going.
func (c *Console) reportErr(err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(c.out, "\nRecord not found.")
	case errors.Is(err, core.ErrAlreadySettled):
		fmt.Fprintln(c.out, "\nThis bill is already fully paid.")
	default:
		fmt.Fprintf(c.out, "\nError: %v\n", err)
	}
}

// ---- Patient actions ----

func (c *Console) addPatient(ctx context.Context) error {
	c.header("ADD NEW PATIENT")

	name, err := c.promptString("Patient name: ")
	if err != nil {
		return err
	}
	age, err := c.promptInt("Age: ", 1, 120)
	if err != nil {
		return err
	}
	gender, err := c.readLine("Gender (M/F/O): ")
	if err != nil {
		return err
	}
	contact, err := c.readLine("Contact number: ")
	if err != nil {
		return err
	}
	address, err := c.readLine("Address: ")
	if err != nil {
		return err
	}
	disease, err := c.readLine("Disease/diagnosis: ")
	if err != nil {
		return err
	}
	admission, err := c.readLine("Admission date (YYYY-MM-DD, enter for today): ")
	if err != nil {
		return err
	}

	id, err := c.app.Registry.AddPatient(ctx, services.NewPatient{
		Name:          name,
		Age:           age,
		Gender:        gender,
		Contact:       contact,
		Address:       address,
		Disease:       disease,
		AdmissionDate: admission,
	})
	if err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintf(c.out, "\nPatient added successfully!\n   Patient ID: %d\n", id)
	return nil
}

func (c *Console) viewPatients(ctx context.Context) error {
	c.header("ALL PATIENTS")

	patients, err := c.app.Registry.ListPatients(ctx)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderPatientTable(patients)
	return nil
}

func (c *Console) searchPatient(ctx context.Context) error {
	c.header("SEARCH PATIENT")

	fmt.Fprintln(c.out, "Search by:")
	fmt.Fprintln(c.out, "1. Name")
	fmt.Fprintln(c.out, "2. Contact")
	fmt.Fprintln(c.out, "3. Patient ID")
	choice, err := c.promptInt("Enter choice: ", 1, 3)
	if err != nil {
		return err
	}
	term, err := c.readLine("Enter search term: ")
	if err != nil {
		return err
	}

	fields := map[int]services.SearchField{
		1: services.SearchByName,
		2: services.SearchByContact,
		3: services.SearchByID,
	}
	patients, err := c.app.Registry.SearchPatients(ctx, fields[choice], term)
	if err != nil {
		c.reportErr(err)
		return nil
	}

	fmt.Fprintln(c.out, "\nSearch Results:")
	fmt.Fprintln(c.out, line)
	if len(patients) == 0 {
		fmt.Fprintln(c.out, "No patients found.")
		return nil
	}
	for _, p := range patients {
		c.renderPatientDetail(p)
	}
	return nil
}

func (c *Console) updatePatient(ctx context.Context) error {
	c.header("UPDATE PATIENT")

	id, err := c.promptInt("Enter Patient ID: ", 1, 99999)
	if err != nil {
		return err
	}
	current, err := c.app.Registry.GetPatient(ctx, int64(id))
	if err != nil {
		c.reportErr(err)
		return nil
	}

	fmt.Fprintln(c.out, "\nCurrent Information:")
	c.renderPatientDetail(*current)
	fmt.Fprintln(c.out, "\nEnter new information (press Enter to keep current):")

	var upd services.PatientUpdate
	if upd.Name, err = c.readLine(fmt.Sprintf("Name [%s]: ", current.Name)); err != nil {
		return err
	}
	if upd.Age, err = c.promptOptionalInt(fmt.Sprintf("Age [%d]: ", current.Age), 1, 120); err != nil {
		return err
	}
	if upd.Gender, err = c.readLine(fmt.Sprintf("Gender [%s]: ", current.Gender)); err != nil {
		return err
	}
	if upd.Contact, err = c.readLine(fmt.Sprintf("Contact [%s]: ", current.Contact)); err != nil {
		return err
	}
	if upd.Address, err = c.readLine(fmt.Sprintf("Address [%s]: ", current.Address)); err != nil {
		return err
	}
	if upd.Disease, err = c.readLine(fmt.Sprintf("Disease [%s]: ", current.Disease)); err != nil {
		return err
	}

	if err := c.app.Registry.UpdatePatient(ctx, current.ID, upd); err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintln(c.out, "\nPatient updated successfully!")
	return nil
}

func (c *Console) deletePatient(ctx context.Context) error {
	c.header("DELETE PATIENT")

	id, err := c.promptInt("Enter Patient ID to delete: ", 1, 99999)
	if err != nil {
		return err
	}
	patient, err := c.app.Registry.GetPatient(ctx, int64(id))
	if err != nil {
		c.reportErr(err)
		return nil
	}

	fmt.Fprintf(c.out, "\nPatient: %s (ID: %d)\n", patient.Name, patient.ID)
	fmt.Fprintln(c.out, "WARNING: This will delete the patient and all associated bills!")
	ok, err := c.confirm("Are you sure? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.out, "Deletion cancelled.")
		return nil
	}

	if err := c.app.Registry.DeletePatient(ctx, patient.ID); err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintln(c.out, "\nPatient deleted successfully!")
	return nil
}

// ---- Billing actions ----

// maxCharge caps each charge component at $10,000 at entry time.
var maxCharge = core.Money{Cents: 1_000_000}

func (c *Console) generateBill(ctx context.Context) error {
	c.header("GENERATE BILL")

	patients, err := c.app.Registry.ListPatients(ctx)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderPatientTable(patients)
	if len(patients) == 0 {
		return nil
	}

	id, err := c.promptInt("\nEnter Patient ID for billing: ", 1, 99999)
	if err != nil {
		return err
	}

	var charges core.Charges
	entries := []struct {
		prompt string
		dst    *core.Money
	}{
		{"Room charges: $", &charges.Room},
		{"Doctor fees: $", &charges.Doctor},
		{"Medicine charges: $", &charges.Medicine},
		{"Lab charges: $", &charges.Lab},
		{"Other charges: $", &charges.Other},
	}
	for _, e := range entries {
		if *e.dst, err = c.promptAmount(e.prompt, core.Money{}, maxCharge); err != nil {
			return err
		}
	}
	total := charges.Total()
	fmt.Fprintf(c.out, "\nTotal Amount: %s\n", total)

	fmt.Fprintln(c.out, "\nPayment Status:")
	fmt.Fprintln(c.out, "1. Paid")
	fmt.Fprintln(c.out, "2. Pending")
	fmt.Fprintln(c.out, "3. Partial")
	statusChoice, err := c.promptInt("Enter choice: ", 1, 3)
	if err != nil {
		return err
	}

	nb := services.NewBill{PatientID: int64(id), Charges: charges}
	var paidNow core.Money
	switch statusChoice {
	case 1:
		nb.Status = core.StatusPaid
		paidNow = total
	case 2:
		nb.Status = core.StatusPending
	case 3:
		nb.Status = core.StatusPartial
		if paidNow, err = c.promptAmount("Amount paid now: $", core.Money{}, total); err != nil {
			return err
		}
		nb.InitialPaid = paidNow
	}

	if paidNow.Cents > 0 {
		if nb.PaymentMethod, err = c.promptPaymentMethod(); err != nil {
			return err
		}
	}

	bill, err := c.app.Ledger.CreateBill(ctx, nb)
	if err != nil {
		c.reportErr(err)
		return nil
	}

	fmt.Fprintln(c.out, "\nBill generated successfully!")
	fmt.Fprintf(c.out, "   Bill Number: %d\n", bill.BillNo)
	fmt.Fprintf(c.out, "   Patient: %s\n", bill.PatientName)
	fmt.Fprintf(c.out, "   Total Amount: %s\n", bill.Total)
	fmt.Fprintf(c.out, "   Amount Paid: %s\n", bill.Paid)
	fmt.Fprintf(c.out, "   Balance Due: %s\n", bill.Balance)
	fmt.Fprintf(c.out, "   Status: %s\n", bill.Status)
	return nil
}

func (c *Console) viewBills(ctx context.Context) error {
	c.header("ALL BILLS")

	bills, err := c.app.Ledger.ListBills(ctx, false)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderBillTable(bills, true)
	return nil
}

func (c *Console) searchBill(ctx context.Context) error {
	c.header("SEARCH BILL")

	billNo, err := c.promptInt("Enter Bill Number: ", 1, 999999)
	if err != nil {
		return err
	}
	bill, err := c.app.Ledger.GetBill(ctx, int64(billNo))
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderBillDetail(*bill)
	return nil
}

func (c *Console) makePayment(ctx context.Context) error {
	c.header("MAKE PAYMENT")

	open, err := c.app.Ledger.ListBills(ctx, true)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	if len(open) == 0 {
		fmt.Fprintln(c.out, "No pending bills found.")
		return nil
	}
	fmt.Fprintln(c.out, "Pending Bills:")
	c.renderBillTable(open, false)

	billNo, err := c.promptInt("\nEnter Bill Number to pay: ", 1, 999999)
	if err != nil {
		return err
	}
	var target *core.Bill
	for i := range open {
		if open[i].BillNo == int64(billNo) {
			target = &open[i]
			break
		}
	}
	if target == nil {
		fmt.Fprintln(c.out, "Bill not found or already paid!")
		return nil
	}

	fmt.Fprintf(c.out, "Maximum payment allowed: %s\n", target.Balance)
	amount, err := c.promptAmount("Enter payment amount: $", core.Money{Cents: 1}, target.Balance)
	if err != nil {
		return err
	}
	method, err := c.promptPaymentMethod()
	if err != nil {
		return err
	}

	updated, err := c.app.Ledger.ApplyPayment(ctx, target.BillNo, amount, method)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintf(c.out, "\nPayment of %s recorded successfully!\n", amount)
	fmt.Fprintf(c.out, "   Balance Due: %s | Status: %s\n", updated.Balance, updated.Status)
	return nil
}

func (c *Console) paymentHistory(ctx context.Context) error {
	c.header("PAYMENT HISTORY")

	billNo, err := c.promptInt("Enter Bill Number (0 for all payments): ", 0, 999999)
	if err != nil {
		return err
	}
	payments, err := c.app.Ledger.ListPayments(ctx, int64(billNo))
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderPaymentTable(payments)
	return nil
}

func (c *Console) printReceipt(ctx context.Context) error {
	c.header("PRINT RECEIPT")

	billNo, err := c.promptInt("Enter Bill Number: ", 1, 999999)
	if err != nil {
		return err
	}
	bill, err := c.app.Ledger.GetBill(ctx, int64(billNo))
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderReceipt(*bill)

	ok, err := c.confirm("\nSave receipt to file? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	path, err := c.saveReceipt(*bill)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintf(c.out, "\nReceipt saved to: %s\n", path)
	return nil
}

// ---- Reports ----

func (c *Console) financialReport(ctx context.Context) error {
	c.header("FINANCIAL REPORT")

	fmt.Fprintln(c.out, "Select Report Type:")
	fmt.Fprintln(c.out, "1. Summary Report")
	fmt.Fprintln(c.out, "2. Outstanding Payments")
	choice, err := c.promptInt("Enter choice: ", 1, 2)
	if err != nil {
		return err
	}

	if choice == 1 {
		summary, err := c.app.Ledger.Aggregate(ctx)
		if err != nil {
			c.reportErr(err)
			return nil
		}
		c.renderSummary(summary)
		return nil
	}

	open, err := c.app.Ledger.ListBills(ctx, true)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	// Largest debts first.
	sort.Slice(open, func(i, j int) bool {
		return open[i].Balance.Cents > open[j].Balance.Cents
	})
	c.renderOutstandingReport(open)
	return nil
}

func (c *Console) statistics(ctx context.Context) error {
	c.header("SYSTEM STATISTICS")

	stats, err := c.app.Registry.Stats(ctx)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	summary, err := c.app.Ledger.Aggregate(ctx)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	c.renderStatistics(stats, summary)
	return nil
}

// ---- Maintenance ----

func (c *Console) backupDatabase(ctx context.Context) error {
	c.header("BACKUP DATABASE")

	path, err := c.app.Maint.Backup(ctx)
	if err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintf(c.out, "Database backed up successfully!\nBackup saved in: %s\n", path)
	c.listRecentBackups()
	return nil
}

func (c *Console) restoreDatabase(ctx context.Context) error {
	c.header("RESTORE DATABASE")

	backups, err := c.app.Maint.ListBackups()
	if err != nil {
		c.reportErr(err)
		return nil
	}
	if len(backups) == 0 {
		fmt.Fprintln(c.out, "No backup files found.")
		return nil
	}

	fmt.Fprintln(c.out, "WARNING: This will overwrite the current database!")
	fmt.Fprintln(c.out, "Available backups:")
	for i, b := range backups {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, filepath.Base(b))
	}
	choice, err := c.promptInt("\nSelect backup to restore: ", 1, len(backups))
	if err != nil {
		return err
	}
	selected := backups[choice-1]

	ok, err := c.confirm(fmt.Sprintf("Are you sure you want to restore from '%s'? (y/n): ",
		filepath.Base(selected)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.out, "Restore cancelled.")
		return nil
	}

	if err := c.app.RestoreBackup(selected); err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintf(c.out, "Database restored successfully from: %s\n", filepath.Base(selected))
	return nil
}

func (c *Console) exportData(ctx context.Context) error {
	c.header("EXPORT DATA")

	fmt.Fprintln(c.out, "Select data to export:")
	fmt.Fprintln(c.out, "1. Patients (CSV)")
	fmt.Fprintln(c.out, "2. Bills (CSV)")
	fmt.Fprintln(c.out, "3. Payments (CSV)")
	fmt.Fprintln(c.out, "4. Everything")
	choice, err := c.promptInt("Enter choice: ", 1, 4)
	if err != nil {
		return err
	}

	if choice == 4 {
		paths, err := c.app.Maint.ExportAll(ctx)
		if err != nil {
			c.reportErr(err)
			return nil
		}
		for _, p := range paths {
			fmt.Fprintf(c.out, "Exported: %s\n", p)
		}
		return nil
	}

	exportDir := c.app.Config.ExportDir
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		c.reportErr(err)
		return nil
	}
	var path string
	switch choice {
	case 1:
		path = filepath.Join(exportDir, "patients.csv")
		err = c.app.Maint.ExportPatients(ctx, path)
	case 2:
		path = filepath.Join(exportDir, "bills.csv")
		err = c.app.Maint.ExportBills(ctx, path)
	case 3:
		path = filepath.Join(exportDir, "payments.csv")
		err = c.app.Maint.ExportPayments(ctx, path)
	}
	if err != nil {
		c.reportErr(err)
		return nil
	}
	fmt.Fprintf(c.out, "Exported: %s\n", path)
	return nil
}

func (c *Console) listRecentBackups() {
	backups, err := c.app.Maint.ListBackups()
	if err != nil || len(backups) == 0 {
		return
	}
	if len(backups) > 5 {
		backups = backups[:5]
	}
	fmt.Fprintln(c.out, "\nRecent backups:")
	for _, b := range backups {
		fmt.Fprintf(c.out, "  %s\n", filepath.Base(b))
	}
}

func (c *Console) header(title string) {
	fmt.Fprintf(c.out, "\n%s\n", line)
	fmt.Fprintf(c.out, "%*s\n", (52+len(title))/2, title)
	fmt.Fprintln(c.out, line)
}
