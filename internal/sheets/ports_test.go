package sheets

import (
	"strings"
	"testing"
	"time"

	"cassa/internal/core"
)

func TestRows(t *testing.T) {
	txs := []core.Transaction{{
		ID:          "tx-1",
		Description: "Groceries",
		Amount:      core.Money{Cents: 250050},
		Type:        core.Debit,
		Method:      core.MethodUPI,
		Category:    core.CategoryGrocery,
		Date:        core.NewDate(2024, 6, 3),
		UpdatedAt:   time.Date(2024, 6, 3, 10, 4, 5, 0, time.UTC),
	}}
	rows := Rows(txs)
	if len(rows) != 2 || rows[0][0] != "Date" {
		t.Fatalf("expected header plus one row, got %v", rows)
	}
	r := rows[1]
	if r[0] != "03/06/2024" || r[2] != "Grocery" || r[5] != 2500.5 || r[7] != "2024-06-03 10:04:05" {
		t.Fatalf("unexpected row %v", r)
	}
	if got := Rows(nil); len(got) != 1 {
		t.Fatalf("empty ledger still gets a header, got %v", got)
	}
}

func TestTabName(t *testing.T) {
	for _, id := range []string{"user_2abc", "asha@example.com", "ünïcode"} {
		if got := TabName(id); got != id {
			t.Errorf("%q should be used as is, got %q", id, got)
		}
	}

	cases := []struct{ in, prefix string }{
		{"a/b:c[d]", "a_b_c_d_-"},
		{"  ", "_-"},
		{"o'brien", "o_brien-"},
		{" padded ", "padded-"},
	}
	for _, tc := range cases {
		if got := TabName(tc.in); !strings.HasPrefix(got, tc.prefix) || len(got) != len(tc.prefix)+8 {
			t.Errorf("%q: want %q plus hash, got %q", tc.in, tc.prefix, got)
		}
	}

	long := TabName(strings.Repeat("é", 150))
	if n := len([]rune(long)); n != maxTabName {
		t.Fatalf("long names must be truncated to %d runes, got %d", maxTabName, n)
	}
}

func TestTabNameKeepsOwnersApart(t *testing.T) {
	ids := []string{
		"a/b", "a_b", "a:b", "a b", " a_b",
		strings.Repeat("x", 120) + "1",
		strings.Repeat("x", 120) + "2",
	}
	ids = append(ids, TabName("a/b"))
	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		tab := TabName(id)
		if prev, ok := seen[tab]; ok {
			t.Fatalf("%q and %q both map to tab %q", prev, id, tab)
		}
		seen[tab] = id
	}
}
