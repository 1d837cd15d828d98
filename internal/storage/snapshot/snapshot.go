// Package snapshot keeps the whole ledger in memory and mirrors it to a
// single JSON file after every mutation.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"cassa/internal/core"
	"cassa/internal/ledger"
	"cassa/internal/storage/memory"
)

// FileName is the fixed name of the mirror file inside the data directory.
const FileName = "cash_management_transactions.json"

var (
	_ ledger.Repository  = (*Repository)(nil)
	_ ledger.OwnerLister = (*Repository)(nil)
)

type Repository struct {
	path   string
	logger *slog.Logger

	// mu serialises mutations so file writes happen in mutation order.
	mu  sync.Mutex
	mem *memory.Store
}

// Open loads dir/FileName. A missing file starts an empty ledger; an
// unreadable or corrupt one is logged and also starts empty.
func Open(dir string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	r := &Repository{path: filepath.Join(dir, FileName), logger: logger}

	txs, err := load(r.path)
	if err != nil {
		logger.Error("Failed to load ledger snapshot, starting empty", "path", r.path, "error", err)
		txs = nil
	}
	r.mem = memory.NewWith(txs)
	logger.Info("Ledger snapshot loaded", "path", r.path, "transactions", r.mem.Len())
	return r, nil
}

// Path returns the snapshot file location.
func (r *Repository) Path() string { return r.path }

func load(path string) ([]core.Transaction, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return txs, nil
}

// flush rewrites the file via temp file and rename. Caller holds mu.
func (r *Repository) flush() error {
	txs := r.mem.Snapshot()
	ledger.SortNewestFirst(txs)
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".cassa-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Transaction, error) {
	return r.mem.Get(ctx, id)
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return r.mem.ListByOwner(ctx, ownerID)
}

func (r *Repository) Owners(ctx context.Context) ([]string, error) {
	return r.mem.Owners(ctx)
}

// Put stores tx and flushes. Every mutation is undone in memory when its
// flush fails, so a reported error leaves the ledger unchanged.
func (r *Repository) Put(ctx context.Context, tx core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, getErr := r.mem.Get(ctx, tx.ID)
	if err := r.mem.Put(ctx, tx); err != nil {
		return err
	}
	if err := r.flush(); err != nil {
		if getErr == nil {
			_ = r.mem.Put(ctx, prev)
		} else {
			_, _ = r.mem.Delete(ctx, tx.ID)
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, err := r.mem.Get(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := r.mem.Delete(ctx, id); err != nil {
		return false, err
	}
	if err := r.flush(); err != nil {
		_ = r.mem.Put(ctx, prev)
		return false, err
	}
	return true, nil
}

func (r *Repository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, err := r.mem.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if len(prev) == 0 {
		return 0, nil
	}
	n, err := r.mem.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if err := r.flush(); err != nil {
		for _, tx := range prev {
			_ = r.mem.Put(ctx, tx)
		}
		return 0, err
	}
	return n, nil
}

func (r *Repository) Close() error { return nil }
