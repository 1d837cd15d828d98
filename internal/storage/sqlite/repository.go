// Package sqlite persists the ledger in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cassa/internal/core"
	"cassa/internal/ledger"
)

var (
	_ ledger.Repository  = (*Repository)(nil)
	_ ledger.OwnerLister = (*Repository)(nil)
)

const columns = `id, user_id, description, amount_cents, type, method, category, date, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

// Open creates the parent directory if needed, opens dbPath and migrates it.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM transactions WHERE id = ?`, id)
	tx, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return tx, nil
}

func (r *Repository) Put(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (`+columns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    user_id = excluded.user_id,
    description = excluded.description,
    amount_cents = excluded.amount_cents,
    type = excluded.type,
    method = excluded.method,
    category = excluded.category,
    date = excluded.date,
    created_at = excluded.created_at,
    updated_at = excluded.updated_at`,
		tx.ID, tx.UserID, tx.Description, tx.Amount.Cents, string(tx.Type), string(tx.Method),
		string(tx.Category), tx.Date.ISO(),
		tx.CreatedAt.UTC().Format(time.RFC3339Nano), tx.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert transaction: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete owner transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (r *Repository) Owners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM transactions ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (core.Transaction, error) {
	var (
		tx                         core.Transaction
		txType, method, category   string
		date, createdAt, updatedAt string
	)
	if err := s.Scan(&tx.ID, &tx.UserID, &tx.Description, &tx.Amount.Cents,
		&txType, &method, &category, &date, &createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TxType(txType)
	tx.Method = core.Method(method)
	tx.Category = core.Category(category)

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Date = d
	if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if tx.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return tx, nil
}
