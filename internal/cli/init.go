// Package cli holds the start-up steps shared by cmd/cassa, cmd/cassa-worker
// and cmd/cassa-cli.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"cassa/internal/backend"
	"cassa/internal/config"
	applog "cassa/internal/log"
)

// SetupLogger installs a text logger on stdout for long-running services.
func SetupLogger(level, component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: component,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// SetupConsoleLogger installs a human-oriented logger on stderr for the
// command-line tool. slog and charm levels share numeric values.
func SetupConsoleLogger(level string) *applog.Logger {
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           charmlog.Level(applog.ParseLevel(level)),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "cassa",
	})
	logger := applog.New(applog.Config{Component: applog.ComponentCLI, Handler: handler})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development; a missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads and validates the environment configuration.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig exits the process on invalid configuration.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend opens the configured ledger backend.
func OpenBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.Result, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend configuration: %w", err)
	}
	return backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).Open(ctx, bcfg)
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
