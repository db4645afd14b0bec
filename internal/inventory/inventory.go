// Package inventory implements the product catalog: a validated Product entity
// and an Inventory repository that keeps an in-memory index in step with a durable store.
//
// An Inventory owns one store session. Mutations are written to the store first and
// only then applied to the in-memory maps, so a failed write never leaves the index
// ahead of the durable state. An Inventory is not safe for concurrent use; open one
// per unit of work through a Provider.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/store"
	"github.com/teiprometal/inventory/internal/store/db"
)

// Changes holds the fields of an update. Nil fields are left as they are.
type Changes struct {
	Name     *string
	Quantity *int64
	Price    *float64
}

// Inventory is the catalog repository.
type Inventory struct {
	store    store.ProductStore
	products map[int64]Product
	names    map[string]struct{}
	logger   *slog.Logger
	closed   bool
}

// Open loads every persisted product into memory and returns an open Inventory.
// On error the caller keeps ownership of st and must close it.
func Open(ctx context.Context, st store.ProductStore, logger *slog.Logger) (*Inventory, error) {
	rows, err := st.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	inv := &Inventory{
		store:    st,
		products: make(map[int64]Product, len(rows)),
		names:    make(map[string]struct{}, len(rows)),
		logger:   logger.With("component", "inventory"),
	}
	for _, row := range rows {
		p, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory: %w", err)
		}
		inv.products[p.ID()] = p
		inv.names[p.NormalizedName()] = struct{}{}
	}
	inv.logger.DebugContext(ctx, "Inventory loaded", "count", len(inv.products))
	return inv, nil
}

// Add persists p and indexes it.
// Returns ErrDuplicateIdentifier if a product with the same ID is already present.
func (inv *Inventory) Add(ctx context.Context, p Product) error {
	if err := inv.checkOpen(); err != nil {
		return err
	}
	if p.ID() <= 0 {
		return perrors.ErrInvalidIdentifier
	}
	if _, ok := inv.products[p.ID()]; ok {
		return fmt.Errorf("%w: %d", perrors.ErrDuplicateIdentifier, p.ID())
	}
	if err := inv.store.Create(ctx, p.ID(), p.Name(), p.Quantity(), p.Price()); err != nil {
		inv.logger.ErrorContext(ctx, "Error persisting product", "ID", p.ID(), "error", err)
		return fmt.Errorf("failed to add product %d: %w", p.ID(), err)
	}
	inv.products[p.ID()] = p
	inv.names[p.NormalizedName()] = struct{}{}
	inv.logger.DebugContext(ctx, "Product added", "ID", p.ID(), "Name", p.Name())
	return nil
}

// Delete removes the product with the given ID.
// It reports false, with a nil error, when no such product exists.
func (inv *Inventory) Delete(ctx context.Context, id int64) (bool, error) {
	if err := inv.checkOpen(); err != nil {
		return false, err
	}
	p, ok := inv.products[id]
	if !ok {
		return false, nil
	}
	if err := inv.store.DeleteByID(ctx, id); err != nil {
		inv.logger.ErrorContext(ctx, "Error deleting product", "ID", id, "error", err)
		return false, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	delete(inv.products, id)
	inv.forgetNameIfUnused(p.NormalizedName())
	inv.logger.DebugContext(ctx, "Product deleted", "ID", id)
	return true, nil
}

// Update applies the supplied changes to the product with the given ID.
// It reports false, with a nil error, when no such product exists. A validation
// failure on any field leaves both the store and the index untouched.
func (inv *Inventory) Update(ctx context.Context, id int64, changes Changes) (bool, error) {
	if err := inv.checkOpen(); err != nil {
		return false, err
	}
	current, ok := inv.products[id]
	if !ok {
		return false, nil
	}
	updated, err := current.apply(changes)
	if err != nil {
		return false, err
	}
	if err := inv.store.Update(ctx, updated.ID(), updated.Name(), updated.Quantity(), updated.Price()); err != nil {
		inv.logger.ErrorContext(ctx, "Error updating product", "ID", id, "error", err)
		return false, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	inv.products[id] = updated
	if prev := current.NormalizedName(); prev != updated.NormalizedName() {
		inv.forgetNameIfUnused(prev)
	}
	inv.names[updated.NormalizedName()] = struct{}{}
	inv.logger.DebugContext(ctx, "Product updated", "ID", id, "Name", updated.Name())
	return true, nil
}

// Get looks the product up in memory.
func (inv *Inventory) Get(id int64) (Product, bool) {
	p, ok := inv.products[id]
	return p, ok
}

// ListAll returns every product ordered by ascending ID.
func (inv *Inventory) ListAll() []Product {
	list := make([]Product, 0, len(inv.products))
	for _, p := range inv.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return list
}

// SearchByName asks the store for products whose name contains query, ignoring case.
// The query is trimmed; a blank query matches everything. Results are built from the
// matched rows and do not touch the in-memory index.
func (inv *Inventory) SearchByName(ctx context.Context, query string) ([]Product, error) {
	if err := inv.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := inv.store.SearchByName(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	found := make([]Product, 0, len(rows))
	for _, row := range rows {
		p, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to search products: %w", err)
		}
		found = append(found, p)
	}
	return found, nil
}

// TotalValue sums quantity * price over the catalog. No rounding is applied.
func (inv *Inventory) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.products {
		total = total.Add(p.Value())
	}
	return total
}

// HasName reports whether any product uses name, ignoring case and surrounding spaces.
func (inv *Inventory) HasName(name string) bool {
	_, ok := inv.names[normalize(strings.TrimSpace(name))]
	return ok
}

// Len is the number of products in the catalog.
func (inv *Inventory) Len() int {
	return len(inv.products)
}

// Close releases the store session. Later calls are no-ops.
func (inv *Inventory) Close() error {
	if inv.closed {
		return nil
	}
	inv.closed = true
	if err := inv.store.Close(); err != nil {
		return fmt.Errorf("failed to close inventory: %w", err)
	}
	return nil
}

func (inv *Inventory) checkOpen() error {
	if inv.closed {
		return perrors.ErrInventoryClosed
	}
	return nil
}

// forgetNameIfUnused drops name from the index unless another product still uses it.
func (inv *Inventory) forgetNameIfUnused(name string) {
	for _, p := range inv.products {
		if p.NormalizedName() == name {
			return
		}
	}
	delete(inv.names, name)
}

// apply validates changes against a working copy of p.
func (p Product) apply(changes Changes) (Product, error) {
	var err error
	if changes.Name != nil {
		if p, err = p.WithName(*changes.Name); err != nil {
			return Product{}, err
		}
	}
	if changes.Quantity != nil {
		if p, err = p.WithQuantity(*changes.Quantity); err != nil {
			return Product{}, err
		}
	}
	if changes.Price != nil {
		if p, err = p.WithPrice(*changes.Price); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func fromRow(row db.Product) (Product, error) {
	p, err := NewProduct(row.ID, row.Name, row.Quantity, row.Price)
	if err != nil {
		return Product{}, errors.Join(perrors.ErrStorageFailure, fmt.Errorf("invalid row %d: %w", row.ID, err))
	}
	return p, nil
}
