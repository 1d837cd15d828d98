package backend

import (
	"errors"
	"fmt"

	"cassa/internal/config"
)

// BackendType names a ledger persistence medium.
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SnapshotBackend BackendType = "snapshot"
	SQLiteBackend   BackendType = "sqlite"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SnapshotBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config selects and parameterises the backend.
type Config struct {
	Type BackendType

	DataDir      string
	SQLiteDBPath string

	// Optional event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig extracts the backend settings from the process config.
func FromAppConfig(app *config.Config) (Config, error) {
	if app == nil {
		return Config{}, errors.New("app config is nil")
	}
	cfg := Config{
		Type:         BackendType(app.DataBackend),
		DataDir:      app.DataDir,
		SQLiteDBPath: app.SQLiteDBPath,
		AMQPURL:      app.AMQPURL,
		AMQPExchange: app.AMQPExchange,
		AMQPQueue:    app.AMQPQueue,
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Type {
	case MemoryBackend:
	case SnapshotBackend:
		if c.DataDir == "" {
			return errors.New("data directory is required for snapshot backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
	default:
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}
	return nil
}
