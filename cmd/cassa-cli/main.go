package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cassa/internal/cli"
	"cassa/internal/ledger"
	applog "cassa/internal/log"
)

// app is the state shared by every subcommand once the root pre-run opened
// the backend.
type app struct {
	logger *applog.Logger
	store  *ledger.Store
	close  func() error
	// open is swapped in tests.
	open func(ctx context.Context, logger *applog.Logger) (*ledger.Store, func() error, error)
}

func openConfigured(ctx context.Context, logger *applog.Logger) (*ledger.Store, func() error, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	be, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	return be.Store, be.Close, nil
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "cassa-cli",
		Short:         "Manage a cassa ledger from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.logger == nil {
				a.logger = cli.SetupConsoleLogger(logLevel)
			}
			store, closer, err := a.open(cmd.Context(), a.logger)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			a.store, a.close = store, closer
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.close != nil {
				return a.close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("user", "", "owner id of the ledger to operate on")

	root.AddCommand(newSeedCmd(a), newSummaryCmd(a), newExportCmd(a), newPurgeCmd(a))
	return root
}

func main() {
	cli.LoadEnvFile()
	a := &app{open: openConfigured}
	ctx, cancel := cli.ShutdownContext(applog.Discard().Logger)
	defer cancel()
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
