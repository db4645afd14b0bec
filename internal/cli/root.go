// Package cli implements the inventoryctl command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/teiprometal/inventory/internal/app"
	"github.com/teiprometal/inventory/internal/config"
	"github.com/teiprometal/inventory/internal/inventory"
	"github.com/teiprometal/inventory/internal/service"
	"github.com/teiprometal/inventory/internal/store"
	"github.com/teiprometal/inventory/pkg/bootstrap"
	"github.com/teiprometal/inventory/pkg/config/configloader"
)

// Backend is what the commands operate on.
type Backend interface {
	EnsureSchema(ctx context.Context) error
	Service() service.InventoryService
	Close()
}

// connectFunc opens a Backend for the global flags of one invocation.
type connectFunc func(ctx context.Context, opts *rootOptions, stderr io.Writer) (Backend, error)

type rootOptions struct {
	databaseURL string
	configFile  string
	logLevel    string
}

func newRootCmd(connect connectFunc) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Manage the product inventory",
		Long:          "inventoryctl prepares the products table and inspects the catalog stored in PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL URL (overrides config and INVENTORY_DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", configloader.DefaultConfigFile, "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	withBackend := func(run func(cmd *cobra.Command, b Backend) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			b, err := connect(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()
			return run(cmd, b)
		}
	}

	cmd.AddCommand(newInitCmd(withBackend))
	cmd.AddCommand(newListCmd(withBackend))
	cmd.AddCommand(newValueCmd(withBackend))
	return cmd
}

// NewRootCmdForTest returns the root command running every subcommand against b.
func NewRootCmdForTest(b Backend) *cobra.Command {
	return newRootCmd(func(context.Context, *rootOptions, io.Writer) (Backend, error) {
		return b, nil
	})
}

func Execute(ctx context.Context) error {
	return newRootCmd(connectPostgres).ExecuteContext(ctx)
}

// loadConfig reads the CLI configuration; --database-url and --log-level win over file and environment.
func loadConfig(opts *rootOptions) (*config.CLIConfig, error) {
	if opts.databaseURL != "" {
		cfg := &config.CLIConfig{}
		cfg.Database.URL = opts.databaseURL
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
		return cfg, nil
	}
	cfg, err := configloader.LoadFile[*config.CLIConfig](app.ServiceName, opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func connectPostgres(ctx context.Context, opts *rootOptions, stderr io.Writer) (Backend, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	logger := bootstrap.NewLoggerTo(stderr, cfg.Log.Level)

	pool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}
	return &pgBackend{pool: pool, logger: logger}, nil
}

type pgBackend struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func (b *pgBackend) EnsureSchema(ctx context.Context) error {
	return store.EnsureSchema(ctx, b.pool)
}

func (b *pgBackend) Service() service.InventoryService {
	return service.NewService(inventory.NewPgProvider(b.pool, b.logger))
}

func (b *pgBackend) Close() {
	b.pool.Close()
}
