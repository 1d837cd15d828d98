package analytics

import (
	"fmt"
	"testing"
	"time"

	"cassa/internal/core"
)

func TestDashboardRecentIsCapped(t *testing.T) {
	now := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	var txs []core.Transaction
	for i := 15; i >= 1; i-- {
		tx := mk(core.Debit, int64(i), 2024, 6, i, "")
		tx.ID = fmt.Sprintf("tx-%02d", i)
		txs = append(txs, tx)
	}
	view := Dashboard(txs, now)
	if view.Count != 15 || len(view.Recent) != RecentLimit {
		t.Fatalf("count=%d recent=%d", view.Count, len(view.Recent))
	}
	if view.Recent[0].ID != "tx-15" {
		t.Fatalf("recent must keep input order, got %s first", view.Recent[0].ID)
	}
	if view.MonthDebit != core.NewMoney(120) {
		t.Fatalf("month debit = %s", view.MonthDebit)
	}
}

func TestFilterRangeInclusive(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Debit, 1, 2024, 6, 1, ""),
		mk(core.Debit, 2, 2024, 6, 15, ""),
		mk(core.Debit, 3, 2024, 6, 30, ""),
		mk(core.Debit, 4, 2024, 7, 1, ""),
	}
	got := FilterRange(txs, core.NewDate(2024, 6, 1), core.NewDate(2024, 6, 30))
	if len(got) != 3 {
		t.Fatalf("expected both bounds included, got %d", len(got))
	}
	if open := FilterRange(txs, core.Date{}, core.Date{}); len(open) != 4 {
		t.Fatalf("zero bounds must be open, got %d", len(open))
	}
}

func TestQuickRange(t *testing.T) {
	now := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	from, to := QuickRange(0, now)
	if from.ISO() != "2024-03-02" || to.ISO() != "2024-03-02" {
		t.Fatalf("today: %s..%s", from.ISO(), to.ISO())
	}
	from, _ = QuickRange(7, now)
	if from.ISO() != "2024-02-24" {
		t.Fatalf("7 days: from %s", from.ISO())
	}
}

func TestSearch(t *testing.T) {
	a := mk(core.Debit, 2500, 2024, 6, 3, "")
	a.Description = "Grocery Shopping"
	b := mk(core.Credit, 50000, 2024, 6, 1, "")
	b.Description = "Salary"
	txs := []core.Transaction{a, b}

	cases := []struct {
		term string
		want int
	}{
		{"grocery", 1},
		{"50000", 1},
		{"03/06/2024", 1},
		{"", 2},
		{"rent", 0},
	}
	for _, tc := range cases {
		if got := Search(txs, tc.term, 10); len(got) != tc.want {
			t.Fatalf("%q: want %d got %d", tc.term, tc.want, len(got))
		}
	}
}
