package ui

import (
	"fmt"
	"strconv"
	"strings"

	"medledger/internal/core"
)

// readLine prints the prompt and returns one trimmed line of input. A read
// failure (including end of input) is the only error it returns; callers
// treat it as "stop the console".
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	text, err := c.in.ReadString('\n')
	if err != nil && strings.TrimSpace(text) == "" {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// promptString re-asks until the operator types something non-blank.
func (c *Console) promptString(prompt string) (string, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		fmt.Fprintln(c.out, "This field cannot be empty.")
	}
}

// promptInt re-asks until the input is an integer in [min, max].
func (c *Console) promptInt(prompt string, min, max int) (int, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(s)
		if convErr != nil || n < min || n > max {
			fmt.Fprintf(c.out, "Please enter a number between %d and %d.\n", min, max)
			continue
		}
		return n, nil
	}
}

// promptOptionalInt behaves like promptInt but a blank line means "keep the
// current value" and yields zero.
func (c *Console) promptOptionalInt(prompt string, min, max int) (int, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		n, convErr := strconv.Atoi(s)
		if convErr != nil || n < min || n > max {
			fmt.Fprintf(c.out, "Please enter a number between %d and %d, or leave blank.\n", min, max)
			continue
		}
		return n, nil
	}
}

// promptAmount re-asks until the input parses as a money amount in
// [min, max]. A blank line counts as zero when zero is allowed.
func (c *Console) promptAmount(prompt string, min, max core.Money) (core.Money, error) {
	for {
		s, err := c.readLine(prompt)
		if err != nil {
			return core.Money{}, err
		}
		if s == "" {
			s = "0"
		}
		m, parseErr := core.ParseAmount(s)
		if parseErr != nil {
			fmt.Fprintf(c.out, "%v\n", parseErr)
			continue
		}
		if m.Cents < min.Cents || m.Cents > max.Cents {
			fmt.Fprintf(c.out, "Please enter an amount between %s and %s.\n", min, max)
			continue
		}
		return m, nil
	}
}

// confirm returns true only for an explicit yes.
func (c *Console) confirm(prompt string) (bool, error) {
	s, err := c.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "y") || strings.EqualFold(s, "yes"), nil
}

var paymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Online Transfer"}

// promptPaymentMethod shows the fixed list of payment channels and returns
// the chosen one.
func (c *Console) promptPaymentMethod() (string, error) {
	fmt.Fprintln(c.out, "\nPayment Method:")
	for i, m := range paymentMethods {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, m)
	}
	choice, err := c.promptInt("Enter choice: ", 1, len(paymentMethods))
	if err != nil {
		return "", err
	}
	return paymentMethods[choice-1], nil
}
