package inventory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teiprometal/inventory/internal/store"
)

// SessionFunc opens a new store session for one Inventory.
type SessionFunc func(ctx context.Context) (store.ProductStore, error)

// Provider opens short-lived Inventory instances, one per unit of work.
type Provider struct {
	session SessionFunc
	logger  *slog.Logger
}

// NewProvider creates a Provider that opens sessions with the given function.
func NewProvider(session SessionFunc, logger *slog.Logger) *Provider {
	return &Provider{
		session: session,
		logger:  logger,
	}
}

// NewPgProvider creates a Provider whose sessions are connections acquired from pool.
func NewPgProvider(pool *pgxpool.Pool, logger *slog.Logger) *Provider {
	return NewProvider(func(ctx context.Context) (store.ProductStore, error) {
		return store.Acquire(ctx, pool)
	}, logger)
}

// Open acquires a session and loads an Inventory over it.
// The caller must Close the returned Inventory.
func (p *Provider) Open(ctx context.Context) (*Inventory, error) {
	st, err := p.session(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := Open(ctx, st, p.logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return inv, nil
}

// With opens an Inventory, runs fn and closes the Inventory on every exit path,
// panics included. A close failure is joined to the error returned by fn.
func (p *Provider) With(ctx context.Context, fn func(inv *Inventory) error) (err error) {
	inv, err := p.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := inv.Close(); closeErr != nil {
			p.logger.ErrorContext(ctx, "Error closing inventory", "error", closeErr)
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(inv)
}
