package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cassa/internal/amqp"
	"cassa/internal/config"
	"cassa/internal/core"
	"cassa/internal/storage/memory"
	"cassa/internal/storage/snapshot"
	"cassa/internal/storage/sqlite"
)

func quietFactory() *Factory {
	f := NewFactory(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.dial = func(string, string, string, *slog.Logger) (*amqp.Client, error) {
		return nil, errors.New("broker unreachable")
	}
	return f
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"snapshot", Config{Type: SnapshotBackend, DataDir: "data"}, false},
		{"snapshot without dir", Config{Type: SnapshotBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("nil config must fail")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPURL: "amqp://h"})
	if err != nil || cfg.Type != SQLiteBackend || cfg.AMQPURL != "amqp://h" {
		t.Fatalf("unexpected %+v err=%v", cfg, err)
	}
}

func TestFactoryOpensEachBackend(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		cfg   Config
		check func(t *testing.T, r *Result)
	}{
		{Config{Type: MemoryBackend}, func(t *testing.T, r *Result) {
			if _, ok := r.Repo.(*memory.Store); !ok {
				t.Fatalf("want memory store, got %T", r.Repo)
			}
		}},
		{Config{Type: SnapshotBackend, DataDir: dir}, func(t *testing.T, r *Result) {
			if _, ok := r.Repo.(*snapshot.Repository); !ok {
				t.Fatalf("want snapshot repository, got %T", r.Repo)
			}
		}},
		{Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "cassa.db")}, func(t *testing.T, r *Result) {
			if _, ok := r.Repo.(*sqlite.Repository); !ok {
				t.Fatalf("want sqlite repository, got %T", r.Repo)
			}
			if err := r.Ready(context.Background()); err != nil {
				t.Fatalf("sqlite should be ready: %v", err)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.cfg.Type.String(), func(t *testing.T) {
			res, err := quietFactory().Open(context.Background(), tc.cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer res.Close()
			tc.check(t, res)

			tx, err := res.Store.Add(context.Background(), "u1", core.Draft{
				Description: "Salary", Amount: core.NewMoney(100), Type: core.Credit,
				Method: core.MethodCash, Date: core.DateOf(time.Now()),
			})
			if err != nil || tx.ID == "" {
				t.Fatalf("store should be usable: %+v err=%v", tx, err)
			}
		})
	}
}

func TestFactoryContinuesWithoutBroker(t *testing.T) {
	res, err := quietFactory().Open(context.Background(), Config{Type: MemoryBackend, AMQPURL: "amqp://nowhere"})
	if err != nil {
		t.Fatalf("unreachable broker must not fail startup: %v", err)
	}
	defer res.Close()
	if res.Publisher != nil {
		t.Fatal("publisher should be nil when dialling fails")
	}
}

func TestFactoryLogsBackendLocation(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	f := NewFactory(slog.New(slog.NewTextHandler(&buf, nil)))

	dbPath := filepath.Join(dir, "cassa.db")
	repo, err := f.OpenRepository(Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()
	if !strings.Contains(buf.String(), "schema_version=1") {
		t.Fatalf("expected schema version in log, got %s", buf.String())
	}

	buf.Reset()
	snap, err := f.OpenRepository(Config{Type: SnapshotBackend, DataDir: dir})
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer snap.Close()
	if !strings.Contains(buf.String(), filepath.Join(dir, snapshot.FileName)) {
		t.Fatalf("expected snapshot path in log, got %s", buf.String())
	}
}
