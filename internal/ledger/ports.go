package ledger

import (
	"context"
	"errors"

	"cassa/internal/core"
)

// ErrNotFound is returned when a transaction id is not in the ledger.
var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters.
type (
	// Repository is the persistence abstraction behind the Store. Put
	// inserts or replaces by id; implementations choose the medium.
	Repository interface {
		Get(ctx context.Context, id string) (core.Transaction, error)
		Put(ctx context.Context, tx core.Transaction) error
		Delete(ctx context.Context, id string) (bool, error)
		ListByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error)
		DeleteByOwner(ctx context.Context, ownerID string) (int, error)
		Close() error
	}

	// OwnerLister is implemented by repositories that can enumerate owners.
	// The mirror worker uses it for its startup resync.
	OwnerLister interface {
		Owners(ctx context.Context) ([]string, error)
	}

	// Publisher announces ledger mutations to other processes.
	Publisher interface {
		Publish(ctx context.Context, ev core.Event) error
	}
)
