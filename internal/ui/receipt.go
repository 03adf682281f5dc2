package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"medledger/internal/core"
)

const receiptWidth = 62

func (c *Console) renderReceipt(b core.Bill) {
	row := func(format string, args ...any) {
		body := fmt.Sprintf(format, args...)
		if len(body) > receiptWidth-4 {
			body = body[:receiptWidth-4]
		}
		fmt.Fprintf(c.out, "║ %-*s ║\n", receiptWidth-4, body)
	}
	rule := func(l, r string) {
		fmt.Fprintf(c.out, "%s%s%s\n", l, strings.Repeat("═", receiptWidth-2), r)
	}
	amount := func(label string, m core.Money) {
		dots := strings.Repeat(".", receiptWidth-4-len(label)-12)
		row("%s %s %11s", label, dots, m)
	}

	fmt.Fprintln(c.out)
	rule("╔", "╗")
	row("%*s", (receiptWidth-4+16)/2, "OFFICIAL RECEIPT")
	rule("╠", "╣")
	row("City General Hospital")
	rule("╠", "╣")
	row("Receipt No: %d", b.BillNo)
	row("Date:       %s", b.BillDate)
	rule("╠", "╣")
	row("Patient: %s", b.PatientName)
	row("Patient ID: %d", b.PatientID)
	rule("╠", "╣")
	row("")
	amount("Room Charges", b.Charges.Room)
	amount("Doctor Fees", b.Charges.Doctor)
	amount("Medicine Charges", b.Charges.Medicine)
	amount("Lab Charges", b.Charges.Lab)
	amount("Other Charges", b.Charges.Other)
	row("")
	amount("TOTAL AMOUNT", b.Total)
	amount("AMOUNT PAID", b.Paid)
	amount("BALANCE DUE", b.Balance)
	row("")
	row("Payment Status: %s", b.Status)
	row("Payment Method: %s", b.PaymentMethod)
	row("")
	rule("╠", "╣")
	row("Thank you for choosing our hospital!")
	rule("╚", "╝")
}

// saveReceipt writes a plain-text copy of the receipt next to the CSV
// exports and returns its path.
func (c *Console) saveReceipt(b core.Bill) (string, error) {
	dir := c.app.Config.ExportDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("receipt_%d.txt", b.BillNo))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Receipt No: %d\n", b.BillNo)
	fmt.Fprintf(&sb, "Date: %s\n", b.BillDate)
	fmt.Fprintf(&sb, "Patient: %s (ID: %d)\n", b.PatientName, b.PatientID)
	fmt.Fprintf(&sb, "Total Amount: %s\n", b.Total)
	fmt.Fprintf(&sb, "Amount Paid: %s\n", b.Paid)
	fmt.Fprintf(&sb, "Balance Due: %s\n", b.Balance)
	fmt.Fprintf(&sb, "Status: %s\n", b.Status)

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("writing receipt: %w", err)
	}
	return path, nil
}
