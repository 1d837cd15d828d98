package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cassa/internal/amqp"
	"cassa/internal/core"
	"cassa/internal/storage/memory"
)

type fakeMirror struct {
	mu     sync.Mutex
	tabs   map[string][]core.Transaction
	failOn string
}

func (f *fakeMirror) ReplaceOwner(_ context.Context, ownerID string, txs []core.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ownerID == f.failOn {
		return errors.New("quota exceeded")
	}
	if f.tabs == nil {
		f.tabs = map[string][]core.Transaction{}
	}
	f.tabs[ownerID] = txs
	return nil
}

func tx(id, owner string, day int) core.Transaction {
	return core.Transaction{
		ID: id, UserID: owner, Description: id, Amount: core.NewMoney(10),
		Type: core.Debit, Method: core.MethodCash, Date: core.NewDate(2024, 6, day),
	}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHandleRewritesOwnerTab(t *testing.T) {
	repo := memory.NewWith([]core.Transaction{tx("a", "u1", 1), tx("b", "u1", 9), tx("c", "u2", 3)})
	mirror := &fakeMirror{}
	w := NewMirrorWorker(repo, mirror, quiet())

	ev := amqp.LedgerEvent{Kind: core.EventCreated, TransactionID: "b", UserID: "u1", Timestamp: time.Now()}
	if err := w.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := mirror.tabs["u1"]
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("expected u1 ledger newest first, got %+v", got)
	}
	if _, ok := mirror.tabs["u2"]; ok {
		t.Fatalf("other owners must not be touched")
	}
}

func TestHandlePurgeWritesEmptyTab(t *testing.T) {
	mirror := &fakeMirror{}
	w := NewMirrorWorker(memory.New(), mirror, quiet())
	if err := w.Handle(context.Background(), amqp.LedgerEvent{Kind: core.EventPurged, UserID: "u1"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got, ok := mirror.tabs["u1"]; !ok || len(got) != 0 {
		t.Fatalf("purge should leave an empty tab, got %v (present=%v)", got, ok)
	}
}

func TestHandleReturnsMirrorErrors(t *testing.T) {
	w := NewMirrorWorker(memory.New(), &fakeMirror{failOn: "u1"}, quiet())
	if err := w.Handle(context.Background(), amqp.LedgerEvent{Kind: core.EventDeleted, UserID: "u1"}); err == nil {
		t.Fatal("mirror failures must surface so the message is requeued")
	}
}

func TestResyncAllContinuesPastFailures(t *testing.T) {
	repo := memory.NewWith([]core.Transaction{tx("a", "u1", 1), tx("b", "u2", 2), tx("c", "u3", 3)})
	mirror := &fakeMirror{failOn: "u2"}
	w := NewMirrorWorker(repo, mirror, quiet())

	err := w.ResyncAll(context.Background())
	if err == nil {
		t.Fatal("expected the u2 failure to be reported")
	}
	if len(mirror.tabs) != 2 {
		t.Fatalf("u1 and u3 should still be mirrored, got %v", mirror.tabs)
	}
}
