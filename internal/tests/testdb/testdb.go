// Package testdb starts a disposable PostgreSQL container with the products schema applied.
// It is shared by the store integration tests and the e2e suite.
package testdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teiprometal/inventory/internal/store/migrations"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Database is a running PostgreSQL container with a connection pool.
type Database struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	URL       string
}

// Start runs a PostgreSQL container, connects to it and applies the migrations.
func Start(ctx context.Context, logger *slog.Logger) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("inventory_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		// Wait for a specific log message indicating the database service is ready.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run PostgreSQL container: %w", err)
	}
	d := &Database{Container: container}

	d.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		d.Terminate(ctx, logger)
		return nil, fmt.Errorf("failed to get connection string from container: %w", err)
	}

	d.Pool, err = pgxpool.New(ctx, d.URL)
	if err != nil {
		d.Terminate(ctx, logger)
		return nil, fmt.Errorf("failed to create pgxpool: %w", err)
	}
	for i := range 10 {
		logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		if err = d.Pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	if err != nil {
		d.Terminate(ctx, logger)
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	if err := migrateUp(d.URL); err != nil {
		d.Terminate(ctx, logger)
		return nil, err
	}
	logger.Info("Migrations applied")
	return d, nil
}

// Truncate removes every product row.
func (d *Database) Truncate(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, "TRUNCATE TABLE products")
	return err
}

// Terminate closes the pool and stops the container.
func (d *Database) Terminate(ctx context.Context, logger *slog.Logger) {
	if d.Pool != nil {
		d.Pool.Close()
		logger.Info("DB pool closed.")
	}
	if d.Container != nil {
		if err := d.Container.Terminate(ctx); err != nil {
			logger.Warn("failed to terminate PostgreSQL container", "error", err)
			return
		}
		logger.Info("PostgreSQL container terminated.")
	}
}

func migrateUp(databaseURL string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
