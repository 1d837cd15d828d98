package analytics

import (
	"testing"
	"time"

	"cassa/internal/core"
)

func mk(typ core.TxType, units int64, y, m, d int, cat core.Category) core.Transaction {
	return core.Transaction{
		ID:          core.NewDate(y, m, d).ISO(),
		UserID:      "u1",
		Description: "entry",
		Amount:      core.NewMoney(units),
		Type:        typ,
		Method:      core.MethodUPI,
		Category:    cat,
		Date:        core.NewDate(y, m, d),
	}
}

func TestScenarioSalaryAndGroceries(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		mk(core.Credit, 50000, 2024, 6, 1, core.CategorySalary),
		mk(core.Debit, 2500, 2024, 6, 3, core.CategoryGrocery),
	}

	if got := Balance(txs); got != core.NewMoney(47500) {
		t.Fatalf("balance = %s", got)
	}
	if got := CurrentMonthDebit(txs, now); got != core.NewMoney(2500) {
		t.Fatalf("current month debit = %s", got)
	}
	if got := CurrentMonthCredit(txs, now); got != core.NewMoney(50000) {
		t.Fatalf("current month credit = %s", got)
	}

	slices := CategoryBreakdown(txs, 2024, 6)
	if len(slices) != 1 {
		t.Fatalf("expected only grocery in breakdown, got %+v", slices)
	}
	if s := slices[0]; s.Category != core.CategoryGrocery || s.Total != core.NewMoney(2500) || s.Count != 1 {
		t.Fatalf("unexpected grocery slice %+v", s)
	}
}

func TestEmptyLedger(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if Balance(nil).Cents != 0 {
		t.Fatalf("empty balance must be zero")
	}
	split := SplitExpenses(nil)
	if !split.Mean.IsZero() || split.Average.Cents != 0 || split.High.Count+split.Low.Count != 0 {
		t.Fatalf("empty split must be zero, got %+v", split)
	}
	trend := Trend(nil, 2024, 1, TrendMonths)
	if len(trend) != 3 {
		t.Fatalf("expected 3 trend entries, got %d", len(trend))
	}
	for _, p := range trend {
		if p.Credit.Cents != 0 || p.Debit.Cents != 0 || p.Net.Cents != 0 {
			t.Fatalf("expected zeroed point, got %+v", p)
		}
	}
	d := Dashboard(nil, now)
	if d.Count != 0 || d.Recent == nil || len(d.Recent) != 0 {
		t.Fatalf("unexpected empty dashboard %+v", d)
	}
}

func TestLastMonthClosingBalance(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Credit, 1000, 2023, 11, 5, ""),
		mk(core.Debit, 200, 2023, 12, 31, ""),
		mk(core.Debit, 300, 2024, 1, 1, ""),
	}
	cases := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"january wraps to december", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 800},
		{"december excludes december", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 1000},
		{"includes everything before", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LastMonthClosingBalance(txs, tc.now); got != core.NewMoney(tc.want) {
				t.Fatalf("want %d got %s", tc.want, got)
			}
		})
	}
}

func TestCategoryBreakdownOrderAndDrops(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Debit, 100, 2024, 6, 1, core.CategoryRent),
		mk(core.Debit, 50, 2024, 6, 2, core.CategoryFuel),
		mk(core.Debit, 25, 2024, 6, 3, core.CategoryFuel),
		mk(core.Debit, 75, 2024, 6, 4, ""),
		mk(core.Credit, 999, 2024, 6, 5, core.CategorySalary),
		mk(core.Debit, 10, 2024, 5, 30, core.CategoryRent),
	}
	got := CategoryBreakdown(txs, 2024, 6)
	if len(got) != 2 {
		t.Fatalf("expected fuel and rent, got %+v", got)
	}
	if got[0].Category != core.CategoryFuel || got[0].Total != core.NewMoney(75) || got[0].Count != 2 {
		t.Fatalf("fuel slice wrong: %+v", got[0])
	}
	if got[1].Category != core.CategoryRent || got[1].Label != "Rent Payment" {
		t.Fatalf("rent slice wrong: %+v", got[1])
	}
}

func TestCategoryBreakdownSumsToDebitTotal(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Debit, 120, 2024, 6, 1, core.CategoryGrocery),
		mk(core.Debit, 80, 2024, 6, 2, core.CategoryTravel),
		mk(core.Debit, 40, 2024, 6, 9, core.CategoryOthers),
	}
	var sum int64
	for _, s := range CategoryBreakdown(txs, 2024, 6) {
		sum += s.Total.Cents
	}
	_, debit := Totals(txs)
	if sum != debit.Cents {
		t.Fatalf("breakdown %d != debit total %d", sum, debit.Cents)
	}
}

func TestSplitExpensesPartition(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Debit, 10, 2024, 6, 1, ""),
		mk(core.Debit, 20, 2024, 6, 2, ""),
		mk(core.Debit, 30, 2024, 6, 3, ""),
		mk(core.Debit, 100, 2024, 6, 4, ""),
		mk(core.Credit, 5000, 2024, 6, 5, ""),
	}
	split := SplitExpenses(txs)
	if split.DebitCount != 4 || split.Total != core.NewMoney(160) {
		t.Fatalf("unexpected totals %+v", split)
	}
	if split.Average != core.NewMoney(40) {
		t.Fatalf("mean = %s", split.Average)
	}
	if split.High.Count != 1 || split.High.Total != core.NewMoney(100) {
		t.Fatalf("high = %+v", split.High)
	}
	if split.Low.Count != 3 || split.Low.Total != core.NewMoney(60) {
		t.Fatalf("low = %+v", split.Low)
	}
	if split.High.Count+split.Low.Count != split.DebitCount {
		t.Fatalf("partition does not cover every debit")
	}
}

func TestSplitExpensesEqualAmountsAreLow(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Debit, 50, 2024, 6, 1, ""),
		mk(core.Debit, 50, 2024, 6, 2, ""),
	}
	split := SplitExpenses(txs)
	if split.High.Count != 0 || split.Low.Count != 2 {
		t.Fatalf("amounts equal to the mean belong to low, got %+v", split)
	}
}

func TestTrendWrapsYears(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Credit, 100, 2023, 11, 10, ""),
		mk(core.Debit, 40, 2023, 12, 10, ""),
		mk(core.Credit, 70, 2024, 1, 2, ""),
		mk(core.Debit, 20, 2024, 1, 3, ""),
		mk(core.Debit, 999, 2024, 2, 1, ""),
	}
	got := Trend(txs, 2024, 1, TrendMonths)
	want := []struct {
		y, m  int
		net   int64
		label string
	}{
		{2023, 11, 100, "Nov 2023"},
		{2023, 12, -40, "Dec 2023"},
		{2024, 1, 50, "Jan 2024"},
	}
	for i, w := range want {
		p := got[i]
		if p.Year != w.y || p.Month != w.m || p.Net != core.NewMoney(w.net) || p.Label != w.label {
			t.Fatalf("point %d: got %+v want %+v", i, p, w)
		}
	}
}

func TestMonthAnalysisTrailingSplit(t *testing.T) {
	txs := []core.Transaction{
		mk(core.Debit, 300, 2024, 4, 1, core.CategoryRent),
		mk(core.Debit, 100, 2024, 6, 2, core.CategoryFuel),
		mk(core.Debit, 999, 2024, 3, 31, core.CategoryRent),
	}
	view := MonthAnalysis(txs, 2024, 6)
	if len(view.Transactions) != 1 || view.Expenses.DebitCount != 1 {
		t.Fatalf("month scope wrong: %+v", view)
	}
	if view.Trailing.DebitCount != 2 || view.Trailing.Total != core.NewMoney(400) {
		t.Fatalf("trailing scope wrong: %+v", view.Trailing)
	}
	if len(view.Trend) != TrendMonths {
		t.Fatalf("trend length %d", len(view.Trend))
	}
}

func TestSplitExpensesLargeLedger(t *testing.T) {
	const n = 100000
	txs := make([]core.Transaction, 0, n)
	big := mk(core.Debit, 0, 2024, 6, 1, "")
	big.Amount = core.MaxAmount
	txs = append(txs, big)
	for i := 1; i < n; i++ {
		small := mk(core.Debit, 0, 2024, 6, 2, "")
		small.Amount = core.Money{Cents: 1}
		txs = append(txs, small)
	}
	split := SplitExpenses(txs)
	if split.High.Count != 1 || split.High.Total != core.MaxAmount {
		t.Fatalf("largest debit must be above the mean, got high=%+v", split.High)
	}
	if split.Low.Count != n-1 {
		t.Fatalf("low count = %d", split.Low.Count)
	}
}
