// Package ledger owns the transaction ledger: it assigns identity and
// bookkeeping timestamps, enforces the write-path invariants and announces
// every mutation, delegating durability to a Repository.
package ledger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"cassa/internal/core"
)

// Store is the ledger service. It is safe for concurrent use as long as the
// underlying Repository is.
type Store struct {
	repo      Repository
	publisher Publisher
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for bookkeeping timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id generator (default: random UUIDs).
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithPublisher sets where mutation events are sent. Without one, events
// are dropped.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithLogger sets the logger used for mutation and publish diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a Store over repo. The caller owns the Store and must Close it.
func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the repository.
func (s *Store) Close() error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Close()
}

// GetByOwner returns every transaction of ownerID, newest date first.
func (s *Store) GetByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	txs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for owner: %w", err)
	}
	SortNewestFirst(txs)
	return txs, nil
}

// Get returns a single transaction or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (core.Transaction, error) {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return core.Transaction{}, ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// Add validates the draft, assigns an id and timestamps, and stores it.
func (s *Store) Add(ctx context.Context, ownerID string, d core.Draft) (core.Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Transaction{}, core.ErrEmptyOwner
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := s.now().UTC()
	tx := core.Transaction{
		ID:          s.newID(),
		UserID:      ownerID,
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
		Method:      d.Method,
		Category:    d.Category,
		Date:        d.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"user_id", ownerID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	s.publish(ctx, core.EventCreated, tx.ID, ownerID)
	return tx, nil
}

// Update merges p onto the stored transaction and refreshes UpdatedAt.
// Unknown ids yield ErrNotFound.
func (s *Store) Update(ctx context.Context, id string, p core.Patch) (core.Transaction, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	merged := p.Apply(current)
	normalized := merged.Draft().Normalize()
	merged.Description = normalized.Description
	merged.Category = normalized.Category
	if err := merged.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated := s.now().UTC()
	if !updated.After(current.UpdatedAt) {
		updated = current.UpdatedAt.Add(time.Nanosecond)
	}
	merged.UpdatedAt = updated

	if err := s.repo.Put(ctx, merged); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Transaction updated", "id", id, "user_id", merged.UserID)
	s.publish(ctx, core.EventUpdated, id, merged.UserID)
	return merged, nil
}

// Delete removes the transaction and reports whether anything was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	current, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.logger.WarnContext(ctx, "Transaction not found for deletion", "id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get transaction %s: %w", id, err)
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if removed {
		s.logger.InfoContext(ctx, "Transaction deleted", "id", id, "user_id", current.UserID)
		s.publish(ctx, core.EventDeleted, id, current.UserID)
	}
	return removed, nil
}

// DeleteAllForOwner removes the whole ledger of ownerID and returns how many
// transactions were dropped.
func (s *Store) DeleteAllForOwner(ctx context.Context, ownerID string) (int, error) {
	n, err := s.repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete ledger for owner: %w", err)
	}
	s.logger.InfoContext(ctx, "Ledger purged", "user_id", ownerID, "removed", n)
	s.publish(ctx, core.EventPurged, "", ownerID)
	return n, nil
}

// publish never fails the mutation: the ledger is already updated locally.
func (s *Store) publish(ctx context.Context, kind core.EventKind, id, ownerID string) {
	if s.publisher == nil {
		return
	}
	ev := core.Event{Kind: kind, TransactionID: id, UserID: ownerID, Timestamp: s.now().UTC()}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind, "id", id, "user_id", ownerID, "error", err)
	}
}

// SortNewestFirst orders txs by date, then creation time, newest first.
func SortNewestFirst(txs []core.Transaction) {
	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
