// Package report renders a slice of the ledger as a CSV download or a
// printable HTML document.
package report

import (
	"fmt"
	"strings"
	"time"

	"cassa/internal/core"
)

// Header is the first CSV line.
const Header = "Date,Description,Category,Type,Method,Amount"

// Owner identifies who a report is generated for.
type Owner struct {
	Name  string
	Email string
}

// FirstName returns the first word of the owner's name.
func (o Owner) FirstName() string {
	if f := strings.Fields(o.Name); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Summary holds the totals printed above a report.
type Summary struct {
	Count  int        `json:"count"`
	Credit core.Money `json:"credit"`
	Debit  core.Money `json:"debit"`
	Net    core.Money `json:"net"`
}

func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case core.Credit:
			s.Credit.Cents += tx.Amount.Cents
		case core.Debit:
			s.Debit.Cents += tx.Amount.Cents
		}
	}
	s.Count = len(txs)
	s.Net = core.Money{Cents: s.Credit.Cents - s.Debit.Cents}
	return s
}

// Filename is the download name of a CSV report generated on day.
func Filename(o Owner, day time.Time) string {
	return fmt.Sprintf("transaction-report-%s-%s.csv",
		o.FirstName(), strings.ReplaceAll(core.DateOf(day).DDMMYYYY(), "/", "-"))
}

// FormatINR renders m the way an en-IN currency formatter does: rupee sign,
// lakh/crore digit grouping and two decimals, e.g. ₹1,23,456.00.
func FormatINR(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := fmt.Sprintf("%d", cents/100)
	return fmt.Sprintf("%s₹%s.%02d", sign, groupIndian(units), cents%100)
}

// groupIndian groups the last three digits, then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
