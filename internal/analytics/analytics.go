// Package analytics derives every read-side view of a ledger: balances,
// monthly totals, category breakdowns, expense splits and trends.
//
// All functions are pure. Inputs are assumed to be scoped to a single owner
// and "now" is always passed in, never read from the clock.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"cassa/internal/core"
)

// TrendMonths is the length of the trend series on the analytics view.
const TrendMonths = 3

// RecentLimit bounds the recent transactions list of the dashboard.
const RecentLimit = 10

type (
	// CategorySlice is one non-empty category of a month's debits.
	CategorySlice struct {
		Category core.Category `json:"category"`
		Label    string        `json:"name"`
		Color    string        `json:"color"`
		Total    core.Money    `json:"value"`
		Count    int           `json:"count"`
	}

	// Bucket is a count and a sum of debits.
	Bucket struct {
		Count int        `json:"count"`
		Total core.Money `json:"total"`
	}

	// ExpenseSplit partitions debits around their arithmetic mean.
	ExpenseSplit struct {
		Total      core.Money      `json:"total"`
		DebitCount int             `json:"debitCount"`
		Mean       decimal.Decimal `json:"-"`
		Average    core.Money      `json:"average"`
		High       Bucket          `json:"high"`
		Low        Bucket          `json:"low"`
	}

	// MonthPoint is one entry of the trend series.
	MonthPoint struct {
		Year   int        `json:"year"`
		Month  int        `json:"month"`
		Label  string     `json:"label"`
		Credit core.Money `json:"credit"`
		Debit  core.Money `json:"debit"`
		Net    core.Money `json:"net"`
	}
)

// Balance folds txs into a signed total: credits add, debits subtract.
func Balance(txs []core.Transaction) core.Money {
	var cents int64
	for _, tx := range txs {
		cents += tx.Signed()
	}
	return core.Money{Cents: cents}
}

// InMonth returns the transactions dated in the given calendar month.
func InMonth(txs []core.Transaction, year, month int) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.Date.InMonth(year, month) {
			out = append(out, tx)
		}
	}
	return out
}

// Totals sums credits and debits separately.
func Totals(txs []core.Transaction) (credit, debit core.Money) {
	for _, tx := range txs {
		switch tx.Type {
		case core.Credit:
			credit.Cents += tx.Amount.Cents
		case core.Debit:
			debit.Cents += tx.Amount.Cents
		}
	}
	return credit, debit
}

func CurrentMonthCredit(txs []core.Transaction, now time.Time) core.Money {
	credit, _ := Totals(InMonth(txs, now.Year(), int(now.Month())))
	return credit
}

func CurrentMonthDebit(txs []core.Transaction, now time.Time) core.Money {
	_, debit := Totals(InMonth(txs, now.Year(), int(now.Month())))
	return debit
}

// LastMonthClosingBalance is the running balance as of the last day of the
// calendar month before now.
func LastMonthClosingBalance(txs []core.Transaction, now time.Time) core.Money {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	cutoff := core.MonthEnd(prev.Year(), int(prev.Month()))
	var cents int64
	for _, tx := range txs {
		if !tx.Date.After(cutoff.Time) {
			cents += tx.Signed()
		}
	}
	return core.Money{Cents: cents}
}

// CategoryBreakdown sums the month's debits per catalog category, in catalog
// order. Categories with no spend are omitted, as are untagged debits.
func CategoryBreakdown(txs []core.Transaction, year, month int) []CategorySlice {
	type acc struct {
		cents int64
		count int
	}
	sums := make(map[core.Category]*acc)
	for _, tx := range txs {
		if tx.Type != core.Debit || tx.Category == "" || !tx.Date.InMonth(year, month) {
			continue
		}
		a, ok := sums[tx.Category]
		if !ok {
			a = &acc{}
			sums[tx.Category] = a
		}
		a.cents += tx.Amount.Cents
		a.count++
	}

	out := make([]CategorySlice, 0, len(sums))
	for _, info := range core.Catalog() {
		a, ok := sums[info.Value]
		if !ok || a.cents == 0 {
			continue
		}
		out = append(out, CategorySlice{
			Category: info.Value,
			Label:    info.Label,
			Color:    info.Color,
			Total:    core.Money{Cents: a.cents},
			Count:    a.count,
		})
	}
	return out
}

// SplitExpenses computes the mean debit and partitions debits into those
// strictly above it (High) and the rest (Low). Credits are ignored.
func SplitExpenses(txs []core.Transaction) ExpenseSplit {
	var debits []core.Transaction
	var split ExpenseSplit
	for _, tx := range txs {
		if tx.Type == core.Debit {
			debits = append(debits, tx)
			split.Total.Cents += tx.Amount.Cents
		}
	}
	split.DebitCount = len(debits)
	if split.DebitCount == 0 {
		split.Mean = decimal.Zero
		return split
	}

	split.Mean = split.Total.Decimal().Div(decimal.NewFromInt(int64(split.DebitCount)))
	split.Average = core.MoneyFromDecimal(split.Mean)

	n := decimal.NewFromInt(int64(split.DebitCount))
	total := decimal.NewFromInt(split.Total.Cents)
	for _, tx := range debits {
		// amount > total/n, compared exactly as amount*n > total.
		if decimal.NewFromInt(tx.Amount.Cents).Mul(n).GreaterThan(total) {
			split.High.Count++
			split.High.Total.Cents += tx.Amount.Cents
		} else {
			split.Low.Count++
			split.Low.Total.Cents += tx.Amount.Cents
		}
	}
	return split
}

// Trend returns n monthly points ending at year/month inclusive, oldest first.
func Trend(txs []core.Transaction, year, month, n int) []MonthPoint {
	if n <= 0 {
		return []MonthPoint{}
	}
	out := make([]MonthPoint, 0, n)
	for _, ym := range trailingMonths(year, month, n) {
		credit, debit := Totals(InMonth(txs, ym.Year(), int(ym.Month())))
		out = append(out, MonthPoint{
			Year:   ym.Year(),
			Month:  int(ym.Month()),
			Label:  ym.Format("Jan 2006"),
			Credit: credit,
			Debit:  debit,
			Net:    core.Money{Cents: credit.Cents - debit.Cents},
		})
	}
	return out
}

// InTrailingMonths returns the transactions dated in the n calendar months
// ending at year/month inclusive.
func InTrailingMonths(txs []core.Transaction, year, month, n int) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, ym := range trailingMonths(year, month, n) {
		out = append(out, InMonth(txs, ym.Year(), int(ym.Month()))...)
	}
	return out
}

func trailingMonths(year, month, n int) []time.Time {
	months := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		months = append(months, time.Date(year, time.Month(month)-time.Month(i), 1, 0, 0, 0, 0, time.UTC))
	}
	return months
}
