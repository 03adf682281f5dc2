package ui

import (
	"fmt"

	"medledger/internal/core"
)

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func (c *Console) renderPatientTable(patients []core.Patient) {
	if len(patients) == 0 {
		fmt.Fprintln(c.out, "No patients found.")
		return
	}
	fmt.Fprintf(c.out, "%-5s %-30s %-4s %-6s %-14s %s\n",
		"ID", "Name", "Age", "Gender", "Contact", "Admission")
	fmt.Fprintln(c.out, "══════════════════════════════════════════════════════════════════════")
	for _, p := range patients {
		fmt.Fprintf(c.out, "%-5d %-30s %-4d %-6s %-14s %s\n",
			p.ID, trunc(p.Name, 30), p.Age, p.Gender, trunc(p.Contact, 14), p.AdmissionDate)
	}
	fmt.Fprintf(c.out, "\nTotal patients: %d\n", len(patients))
}

func (c *Console) renderPatientDetail(p core.Patient) {
	fmt.Fprintf(c.out, "\nPatient ID: %d\n", p.ID)
	fmt.Fprintf(c.out, "Name: %s\n", p.Name)
	fmt.Fprintf(c.out, "Age: %d | Gender: %s\n", p.Age, p.Gender)
	fmt.Fprintf(c.out, "Contact: %s\n", p.Contact)
	fmt.Fprintf(c.out, "Address: %s\n", p.Address)
	fmt.Fprintf(c.out, "Disease: %s\n", p.Disease)
	fmt.Fprintf(c.out, "Admission Date: %s\n", p.AdmissionDate)
	fmt.Fprintln(c.out, "────────────────────────────────────────────────")
}

// renderBillTable prints bills one per row; withSummary adds the running
// totals the all-bills view shows.
func (c *Console) renderBillTable(bills []core.Bill, withSummary bool) {
	if len(bills) == 0 {
		fmt.Fprintln(c.out, "No bills found.")
		return
	}
	fmt.Fprintf(c.out, "%-8s %-25s %-11s %-11s %-11s %-8s %s\n",
		"Bill No", "Patient Name", "Total", "Paid", "Balance", "Status", "Date")
	fmt.Fprintln(c.out, "════════════════════════════════════════════════════════════════════════════════════")

	var billed, paid, outstanding core.Money
	for _, b := range bills {
		fmt.Fprintf(c.out, "%-8d %-25s %-11s %-11s %-11s %-8s %s\n",
			b.BillNo, trunc(b.PatientName, 25), b.Total, b.Paid, b.Balance, b.Status, b.BillDate)
		billed = billed.Add(b.Total)
		paid = paid.Add(b.Paid)
		outstanding = outstanding.Add(b.Balance)
	}

	if withSummary {
		fmt.Fprintln(c.out, "\nSummary:")
		fmt.Fprintf(c.out, "  Total Bills:        %d\n", len(bills))
		fmt.Fprintf(c.out, "  Total Billed:       %s\n", billed)
		fmt.Fprintf(c.out, "  Total Paid:         %s\n", paid)
		fmt.Fprintf(c.out, "  Total Outstanding:  %s\n", outstanding)
	}
}

func (c *Console) renderBillDetail(b core.Bill) {
	fmt.Fprintln(c.out, "\nBill Details:")
	fmt.Fprintln(c.out, line)
	fmt.Fprintf(c.out, "Bill No: %d | Date: %s\n", b.BillNo, b.BillDate)
	fmt.Fprintf(c.out, "Patient: %s (ID: %d)\n", b.PatientName, b.PatientID)
	fmt.Fprintln(c.out, line)
	fmt.Fprintf(c.out, "Room Charges:        %12s\n", b.Charges.Room)
	fmt.Fprintf(c.out, "Doctor Fees:         %12s\n", b.Charges.Doctor)
	fmt.Fprintf(c.out, "Medicine Charges:    %12s\n", b.Charges.Medicine)
	fmt.Fprintf(c.out, "Lab Charges:         %12s\n", b.Charges.Lab)
	fmt.Fprintf(c.out, "Other Charges:       %12s\n", b.Charges.Other)
	fmt.Fprintln(c.out, line)
	fmt.Fprintf(c.out, "TOTAL AMOUNT:        %12s\n", b.Total)
	fmt.Fprintf(c.out, "Amount Paid:         %12s\n", b.Paid)
	fmt.Fprintf(c.out, "Balance Due:         %12s\n", b.Balance)
	fmt.Fprintln(c.out, line)
	fmt.Fprintf(c.out, "Payment Status:      %s\n", b.Status)
	fmt.Fprintf(c.out, "Payment Method:      %s\n", b.PaymentMethod)
}

func (c *Console) renderPaymentTable(payments []core.PaymentRecord) {
	if len(payments) == 0 {
		fmt.Fprintln(c.out, "No payment records found.")
		return
	}
	fmt.Fprintf(c.out, "%-11s %-8s %-25s %-11s %-16s %s\n",
		"Payment ID", "Bill No", "Patient Name", "Amount", "Method", "Date")
	fmt.Fprintln(c.out, "══════════════════════════════════════════════════════════════════════════════")

	var total core.Money
	for _, p := range payments {
		fmt.Fprintf(c.out, "%-11d %-8d %-25s %-11s %-16s %s\n",
			p.PaymentID, p.BillNo, trunc(p.PatientName, 25), p.Amount,
			p.Method, p.Date.Format(core.DateFormat))
		total = total.Add(p.Amount)
	}
	fmt.Fprintln(c.out, "\nSummary:")
	fmt.Fprintf(c.out, "  Total Payments: %d\n", len(payments))
	fmt.Fprintf(c.out, "  Total Amount:   %s\n", total)
}

func (c *Console) renderSummary(s core.LedgerSummary) {
	fmt.Fprintln(c.out, "\nFINANCIAL SUMMARY REPORT")
	fmt.Fprintln(c.out, line)
	fmt.Fprintf(c.out, "  Total Bills Generated:      %d\n", s.TotalBills)
	fmt.Fprintf(c.out, "  Total Amount Billed:        %s\n", s.TotalBilled)
	fmt.Fprintf(c.out, "  Total Amount Collected:     %s\n", s.TotalPaid)
	fmt.Fprintf(c.out, "  Total Outstanding:          %s\n", s.TotalOutstanding)
	fmt.Fprintf(c.out, "  Collection Rate:            %.1f%%\n", s.CollectionRate)
}

func (c *Console) renderOutstandingReport(bills []core.Bill) {
	fmt.Fprintln(c.out, "\nOUTSTANDING PAYMENTS REPORT")
	fmt.Fprintln(c.out, line)
	if len(bills) == 0 {
		fmt.Fprintln(c.out, "No outstanding bills.")
		return
	}
	fmt.Fprintf(c.out, "%-8s %-25s %-11s %-11s %-11s %s\n",
		"Bill No", "Patient Name", "Total", "Paid", "Balance", "Date")
	fmt.Fprintln(c.out, "══════════════════════════════════════════════════════════════════════════")

	var outstanding core.Money
	for _, b := range bills {
		fmt.Fprintf(c.out, "%-8d %-25s %-11s %-11s %-11s %s\n",
			b.BillNo, trunc(b.PatientName, 25), b.Total, b.Paid, b.Balance, b.BillDate)
		outstanding = outstanding.Add(b.Balance)
	}
	fmt.Fprintln(c.out, "\nSummary:")
	fmt.Fprintf(c.out, "  Total Outstanding Bills:  %d\n", len(bills))
	fmt.Fprintf(c.out, "  Total Outstanding Amount: %s\n", outstanding)
}

func (c *Console) renderStatistics(stats core.PatientStats, s core.LedgerSummary) {
	fmt.Fprintln(c.out, "\nOverall Statistics:")
	fmt.Fprintln(c.out, line)
	fmt.Fprintln(c.out, "PATIENTS:")
	fmt.Fprintf(c.out, "  Total Patients:        %d\n", stats.TotalPatients)
	fmt.Fprintf(c.out, "  Male Patients:         %d\n", stats.MalePatients)
	fmt.Fprintf(c.out, "  Female Patients:       %d\n", stats.FemalePatients)
	fmt.Fprintf(c.out, "  Average Age:           %.1f years\n", stats.AverageAge)
	fmt.Fprintln(c.out, "\nBILLING:")
	fmt.Fprintf(c.out, "  Total Bills:           %d\n", s.TotalBills)
	fmt.Fprintf(c.out, "  Total Amount Billed:   %s\n", s.TotalBilled)
	fmt.Fprintf(c.out, "  Total Amount Paid:     %s\n", s.TotalPaid)
	fmt.Fprintf(c.out, "  Total Outstanding:     %s\n", s.TotalOutstanding)
	fmt.Fprintf(c.out, "  Average Bill Amount:   %s\n", s.AverageBill())
	fmt.Fprintf(c.out, "  Collection Rate:       %.1f%%\n", s.CollectionRate)
}
