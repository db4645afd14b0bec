// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/teiprometal/inventory/internal/store/db"
)

// ProductStore is a single durable session over the products table.
// Every mutating call commits on its own; there are no transactions spanning calls.
// Failures are reported wrapped in ErrStorageFailure.
type ProductStore interface {
	// FindAll returns every persisted product ordered by ID.
	FindAll(ctx context.Context) ([]db.Product, error)

	// SearchByName returns products whose name contains query, ignoring case.
	// An empty query matches every product.
	SearchByName(ctx context.Context, query string) ([]db.Product, error)

	// Create inserts a new row.
	// Returns ErrDuplicateIdentifier if a row with the same ID exists.
	Create(ctx context.Context, id int64, name string, quantity int64, price float64) error

	// Update overwrites name, quantity and price of an existing row.
	// Returns ErrProductNotFound if no row exists with the given ID.
	Update(ctx context.Context, id int64, name string, quantity int64, price float64) error

	// DeleteByID removes a row by its ID.
	// Returns ErrProductNotFound if no row exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Close releases the underlying connection.
	Close() error
}
