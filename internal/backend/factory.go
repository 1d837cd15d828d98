// Package backend assembles a ledger store over the configured repository
// and, when a broker is configured, an event publisher.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cassa/internal/amqp"
	"cassa/internal/ledger"
	"cassa/internal/storage/memory"
	"cassa/internal/storage/snapshot"
	"cassa/internal/storage/sqlite"
)

// Result is an opened backend. Close releases everything it holds.
type Result struct {
	Store     *ledger.Store
	Repo      ledger.Repository
	Publisher *amqp.Client
}

func (r *Result) Close() error {
	var errs []error
	if r.Publisher != nil {
		errs = append(errs, r.Publisher.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}

// Pinger is implemented by repositories with a reachable dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports whether the repository can serve requests.
func (r *Result) Ready(ctx context.Context) error {
	if p, ok := r.Repo.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

type Factory struct {
	logger *slog.Logger
	// dial is swapped in tests.
	dial func(url, exchange, queue string, logger *slog.Logger) (*amqp.Client, error)
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger, dial: amqp.Dial}
}

// Open creates the repository for cfg.Type and wraps it in a ledger store.
// A broker that cannot be reached is logged and the store runs without
// publishing.
func (f *Factory) Open(ctx context.Context, cfg Config, opts ...ledger.Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := f.openRepository(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{Repo: repo}
	if cfg.AMQPURL != "" {
		client, err := f.dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			res.Publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	all := []ledger.Option{ledger.WithLogger(f.logger)}
	if res.Publisher != nil {
		all = append(all, ledger.WithPublisher(res.Publisher))
	}
	res.Store = ledger.New(repo, append(all, opts...)...)

	f.logger.InfoContext(ctx, "Initialized ledger backend", "type", cfg.Type, "events", res.Publisher != nil)
	return res, nil
}

// OpenRepository returns only the repository, for readers such as the
// mirror worker.
func (f *Factory) OpenRepository(cfg Config) (ledger.Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return f.openRepository(cfg)
}

func (f *Factory) openRepository(cfg Config) (ledger.Repository, error) {
	switch cfg.Type {
	case MemoryBackend:
		return memory.New(), nil
	case SnapshotBackend:
		repo, err := snapshot.Open(cfg.DataDir, f.logger)
		if err != nil {
			return nil, fmt.Errorf("open snapshot backend: %w", err)
		}
		f.logger.Info("Opened snapshot backend", "path", repo.Path())
		return repo, nil
	case SQLiteBackend:
		repo, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		version, dirty, err := sqlite.SchemaVersion(cfg.SQLiteDBPath)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("read sqlite schema version: %w", err)
		}
		if dirty {
			repo.Close()
			return nil, fmt.Errorf("sqlite schema version %d is dirty", version)
		}
		f.logger.Info("Opened sqlite backend", "path", cfg.SQLiteDBPath, "schema_version", version)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
