// Package memory is a process-local ledger repository with no durability.
package memory

import (
	"context"
	"slices"
	"sync"

	"cassa/internal/core"
	"cassa/internal/ledger"
)

var (
	_ ledger.Repository  = (*Store)(nil)
	_ ledger.OwnerLister = (*Store)(nil)
)

type Store struct {
	mu    sync.Mutex
	items map[string]core.Transaction
}

func New() *Store {
	return &Store{items: make(map[string]core.Transaction)}
}

// NewWith returns a store preloaded with txs. Later duplicates of an id win.
func NewWith(txs []core.Transaction) *Store {
	s := New()
	for _, tx := range txs {
		s.items[tx.ID] = tx
	}
	return s
}

func (s *Store) Get(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[id]
	if !ok {
		return core.Transaction{}, ledger.ErrNotFound
	}
	return tx, nil
}

func (s *Store) Put(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[tx.ID] = tx
	return nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *Store) ListByOwner(_ context.Context, ownerID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, tx := range s.items {
		if tx.UserID == ownerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) DeleteByOwner(_ context.Context, ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, tx := range s.items {
		if tx.UserID == ownerID {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

// Owners returns the distinct owner ids, sorted.
func (s *Store) Owners(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, tx := range s.items {
		if _, ok := seen[tx.UserID]; ok {
			continue
		}
		seen[tx.UserID] = struct{}{}
		out = append(out, tx.UserID)
	}
	slices.Sort(out)
	return out, nil
}

// Len returns the number of stored transactions across all owners.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot returns every stored transaction, in no particular order.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		out = append(out, tx)
	}
	return out
}

func (s *Store) Close() error { return nil }
