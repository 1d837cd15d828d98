package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cassa/internal/core"
	"cassa/internal/ledger"
	applog "cassa/internal/log"
	"cassa/internal/storage/memory"
)

func newTestApp(t *testing.T) (*app, *ledger.Store) {
	t.Helper()
	store := ledger.New(memory.New())
	a := &app{
		logger: applog.Discard(),
		open: func(context.Context, *applog.Logger) (*ledger.Store, func() error, error) {
			return store, func() error { return nil }, nil
		},
	}
	return a, store
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedAndSummary(t *testing.T) {
	a, store := newTestApp(t)

	out, err := run(t, a, "seed", "--user", "u1")
	if err != nil || !strings.HasPrefix(out, "added ") {
		t.Fatalf("seed: %q err=%v", out, err)
	}
	txs, _ := store.GetByOwner(context.Background(), "u1")
	if len(txs) == 0 {
		t.Fatal("seed stored nothing")
	}

	out, err = run(t, a, "summary", "--user", "u1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Balance:", "Trend:", "₹"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, a, "summary", "--user", "u1", "--month", "13"); err == nil {
		t.Fatal("month 13 must be rejected")
	}
}

func TestUserFlagRequired(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := run(t, a, "purge", "--yes"); err == nil {
		t.Fatal("expected missing --user to fail")
	}
}

func TestExportCSVToFile(t *testing.T) {
	a, store := newTestApp(t)
	today := core.DateOf(time.Now())
	_, err := store.Add(context.Background(), "u1", core.Draft{
		Description: "Lunch", Amount: core.NewMoney(250), Type: core.Debit,
		Method: core.MethodUPI, Category: core.CategoryFoodDining, Date: today,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if _, err := run(t, a, "export", "csv", "--user", "u1", "--days", "0", "-o", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "Date,Description,Category,Type,Method,Amount\n" +
		today.DDMMYYYY() + `,"Lunch","Food & Dining",debit,UPI,250`
	if string(data) != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", data, want)
	}

	out, err := run(t, a, "export", "html", "--user", "u1", "--name", "Asha Rao")
	if err != nil || !strings.Contains(out, "Asha Rao") || !strings.Contains(out, "₹250.00") {
		t.Fatalf("html export: err=%v\n%s", err, out)
	}
}

func TestPurgeNeedsConfirmation(t *testing.T) {
	a, store := newTestApp(t)
	if _, err := run(t, a, "seed", "--user", "u1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := run(t, a, "purge", "--user", "u1"); err == nil {
		t.Fatal("purge without --yes must fail")
	}
	out, err := run(t, a, "purge", "--user", "u1", "--yes")
	if err != nil || !strings.HasPrefix(out, "deleted ") {
		t.Fatalf("purge: %q err=%v", out, err)
	}
	txs, _ := store.GetByOwner(context.Background(), "u1")
	if len(txs) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(txs))
	}
}
