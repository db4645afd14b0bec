package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/store/db"
)

// MemStore implements ProductStore using an in-memory map.
// It stands in for PostgreSQL in unit tests and shares one table between sessions:
// Close on a MemStore does not discard data.
type MemStore struct {
	mu       sync.RWMutex
	products map[int64]db.Product
}

// NewMemStore creates an empty in-memory product table.
func NewMemStore(seed ...db.Product) *MemStore {
	s := &MemStore{products: make(map[int64]db.Product, len(seed))}
	for _, p := range seed {
		s.products[p.ID] = p
	}
	return s
}

// FindAll retrieves all products ordered by ID.
func (s *MemStore) FindAll(_ context.Context) ([]db.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(db.Product) bool { return true }), nil
}

// SearchByName matches query as a case-insensitive substring of the name.
func (s *MemStore) SearchByName(_ context.Context, query string) ([]db.Product, error) {
	needle := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(p db.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// Create inserts a new product.
func (s *MemStore) Create(_ context.Context, id int64, name string, quantity int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; ok {
		return fmt.Errorf("%w: %d", perrors.ErrDuplicateIdentifier, id)
	}
	s.products[id] = db.Product{ID: id, Name: name, Quantity: quantity, Price: price}
	return nil
}

// Update overwrites an existing product.
func (s *MemStore) Update(_ context.Context, id int64, name string, quantity int64, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return perrors.ErrProductNotFound
	}
	s.products[id] = db.Product{ID: id, Name: name, Quantity: quantity, Price: price}
	return nil
}

// DeleteByID removes a product by its ID.
func (s *MemStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Close is a no-op; the table outlives its sessions.
func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) sorted(keep func(db.Product) bool) []db.Product {
	list := make([]db.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
