// Package worker keeps the spreadsheet mirror in step with the ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cassa/internal/amqp"
	"cassa/internal/ledger"
	"cassa/internal/sheets"
)

// resyncConcurrency bounds parallel owner rewrites during Resync; the
// Sheets API quota is per project, not per tab.
const resyncConcurrency = 4

// MirrorWorker rewrites an owner's tab whenever their ledger changes.
// Events only carry ids, so every rewrite reads the current ledger and
// replaying or reordering events is harmless.
type MirrorWorker struct {
	repo   ledger.Repository
	mirror sheets.Mirror
	logger *slog.Logger
}

func NewMirrorWorker(repo ledger.Repository, mirror sheets.Mirror, logger *slog.Logger) *MirrorWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorWorker{repo: repo, mirror: mirror, logger: logger}
}

// Handle is an amqp.Handler.
func (w *MirrorWorker) Handle(ctx context.Context, ev amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		"kind", ev.Kind, "user_id", ev.UserID, "transaction_id", ev.TransactionID)
	return w.syncOwner(ctx, ev.UserID)
}

func (w *MirrorWorker) syncOwner(ctx context.Context, ownerID string) error {
	txs, err := w.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load ledger of %s: %w", ownerID, err)
	}
	ledger.SortNewestFirst(txs)
	if err := w.mirror.ReplaceOwner(ctx, ownerID, txs); err != nil {
		return fmt.Errorf("mirror ledger of %s: %w", ownerID, err)
	}
	return nil
}

// Resync rewrites every owner's tab. Failures are collected so one bad
// owner does not stop the rest.
func (w *MirrorWorker) Resync(ctx context.Context, owners []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resyncConcurrency)

	errs := make([]error, len(owners))
	for i, owner := range owners {
		g.Go(func() error {
			if err := w.syncOwner(gctx, owner); err != nil {
				w.logger.ErrorContext(gctx, "Startup resync failed for owner", "user_id", owner, "error", err)
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	w.logger.InfoContext(ctx, "Startup resync finished", "owners", len(owners), "failed", err != nil)
	return err
}

// ResyncAll resyncs every owner the repository knows about. Repositories
// that cannot enumerate owners are skipped.
func (w *MirrorWorker) ResyncAll(ctx context.Context) error {
	lister, ok := w.repo.(ledger.OwnerLister)
	if !ok {
		w.logger.WarnContext(ctx, "Repository cannot list owners, skipping startup resync")
		return nil
	}
	owners, err := lister.Owners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}
	return w.Resync(ctx, owners)
}
