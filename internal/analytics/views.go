package analytics

import (
	"strings"
	"time"

	"cassa/internal/core"
)

type (
	// DashboardView is the landing page summary of a ledger.
	DashboardView struct {
		Balance          core.Money         `json:"balance"`
		MonthCredit      core.Money         `json:"monthCredit"`
		MonthDebit       core.Money         `json:"monthDebit"`
		LastMonthClosing core.Money         `json:"lastMonthClosing"`
		Count            int                `json:"count"`
		Recent           []core.Transaction `json:"recent"`
	}

	// MonthView is the analytics page for one calendar month.
	MonthView struct {
		Year         int                `json:"year"`
		Month        int                `json:"month"`
		Transactions []core.Transaction `json:"transactions"`
		Categories   []CategorySlice    `json:"categories"`
		Expenses     ExpenseSplit       `json:"expenses"`
		Trend        []MonthPoint       `json:"trend"`
		Trailing     ExpenseSplit       `json:"trailing"`
	}
)

// Dashboard builds the dashboard view. txs must already be sorted newest
// first for Recent to be meaningful.
func Dashboard(txs []core.Transaction, now time.Time) DashboardView {
	recent := txs
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return DashboardView{
		Balance:          Balance(txs),
		MonthCredit:      CurrentMonthCredit(txs, now),
		MonthDebit:       CurrentMonthDebit(txs, now),
		LastMonthClosing: LastMonthClosingBalance(txs, now),
		Count:            len(txs),
		Recent:           append(make([]core.Transaction, 0, len(recent)), recent...),
	}
}

// MonthAnalysis bundles everything the analytics page shows for year/month.
func MonthAnalysis(txs []core.Transaction, year, month int) MonthView {
	inMonth := InMonth(txs, year, month)
	return MonthView{
		Year:         year,
		Month:        month,
		Transactions: inMonth,
		Categories:   CategoryBreakdown(inMonth, year, month),
		Expenses:     SplitExpenses(inMonth),
		Trend:        Trend(txs, year, month, TrendMonths),
		Trailing:     SplitExpenses(InTrailingMonths(txs, year, month, TrendMonths)),
	}
}

// FilterRange keeps transactions dated between from and to, both inclusive.
// A zero bound is open.
func FilterRange(txs []core.Transaction, from, to core.Date) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if !from.IsZero() && tx.Date.Before(from.Time) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to.Time) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// QuickRange returns the window covering the last days days up to today.
// Zero means today only.
func QuickRange(days int, now time.Time) (from, to core.Date) {
	to = core.DateOf(now)
	if days <= 0 {
		return to, to
	}
	return core.DateOf(now.AddDate(0, 0, -days)), to
}

// Search matches term against the description (case-insensitive), the
// amount and the DD/MM/YYYY date, returning at most limit hits.
func Search(txs []core.Transaction, term string, limit int) []core.Transaction {
	term = strings.TrimSpace(term)
	out := make([]core.Transaction, 0)
	lower := strings.ToLower(term)
	for _, tx := range txs {
		if limit > 0 && len(out) == limit {
			break
		}
		if term == "" ||
			strings.Contains(strings.ToLower(tx.Description), lower) ||
			strings.Contains(tx.Amount.String(), term) ||
			strings.Contains(tx.Date.DDMMYYYY(), term) {
			out = append(out, tx)
		}
	}
	return out
}
