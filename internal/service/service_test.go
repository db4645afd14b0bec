package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/inventory"
	"github.com/teiprometal/inventory/internal/store"
	"github.com/teiprometal/inventory/internal/store/db"
)

// failingScope is a Scope that cannot open an inventory.
type failingScope struct {
	error error
}

func (f failingScope) With(_ context.Context, _ func(inv *inventory.Inventory) error) error {
	return f.error
}

// newTestService creates a Service over an in-memory table seeded with rows.
func newTestService(rows ...db.Product) (*Service, *store.MemStore) {
	st := store.NewMemStore(rows...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := inventory.NewProvider(func(context.Context) (store.ProductStore, error) { return st, nil }, logger)
	return NewService(provider), st
}

func seedRows() []db.Product {
	return []db.Product{
		{ID: 1, Name: "Clavo 2\"", Quantity: 500, Price: 0.03},
		{ID: 2, Name: "Tornillo 1/4\"", Quantity: 120, Price: 0.08},
	}
}

func ptr[T any](v T) *T { return &v }

func Test_InventoryService_FindByID(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		scope       Scope
		productID   int64
		expected    *ProductDto
		expectError error
	}{
		{
			name:      "Success - product found",
			productID: 2,
			expected: &ProductDto{
				ID: 2, Name: "Tornillo 1/4\"", Quantity: 120, Price: 0.08,
				Value: decimal.RequireFromString("9.6"),
			},
		},
		{
			name:        "Error - product not found",
			productID:   42,
			expectError: perrors.ErrProductNotFound,
		},
		{
			name:        "Error - store error",
			scope:       failingScope{error: ErrStoreError},
			productID:   1,
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _ := newTestService(seedRows()...)
			if tc.scope != nil {
				svc = NewService(tc.scope)
			}
			// when
			found, err := svc.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.ID, found.ID)
			assert.Equal(t, tc.expected.Name, found.Name)
			assert.Equal(t, tc.expected.Quantity, found.Quantity)
			assert.Equal(t, tc.expected.Price, found.Price)
			assert.True(t, tc.expected.Value.Equal(found.Value), "value %s", found.Value)
		})
	}
}

func Test_InventoryService_List(t *testing.T) {
	testCases := []struct {
		name        string
		query       string
		expectedIDs []int64
		expectQuery string
	}{
		{name: "Success - blank query lists all", query: "  ", expectedIDs: []int64{1, 2}},
		{name: "Success - search by name", query: "tornillo", expectedIDs: []int64{2}, expectQuery: "tornillo"},
		{name: "Success - no match", query: "plancha", expectedIDs: []int64{}, expectQuery: "plancha"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _ := newTestService(seedRows()...)
			// when
			catalog, err := svc.List(context.Background(), tc.query)
			// then
			require.NoError(t, err)
			ids := make([]int64, 0, len(catalog.Products))
			for _, p := range catalog.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expectedIDs, ids)
			assert.Equal(t, tc.expectQuery, catalog.Query)
			assert.True(t, decimal.RequireFromString("24.6").Equal(catalog.TotalValue), "total %s", catalog.TotalValue)
		})
	}
}

func Test_InventoryService_ListError(t *testing.T) {
	ErrStoreError := errors.New("store error")
	svc := NewService(failingScope{error: ErrStoreError})

	catalog, err := svc.List(context.Background(), "")

	assert.ErrorIs(t, err, ErrStoreError)
	assert.Nil(t, catalog)
}

func Test_InventoryService_Create(t *testing.T) {
	testCases := []struct {
		name        string
		input       ProductCreateDto
		expectError error
	}{
		{
			name:  "Success - product created",
			input: ProductCreateDto{ID: 3, Name: " Plancha acero 1m² ", Quantity: 5, Price: 25},
		},
		{
			name:        "Error - duplicate id",
			input:       ProductCreateDto{ID: 1, Name: "Clavo", Quantity: 5, Price: 25},
			expectError: perrors.ErrDuplicateIdentifier,
		},
		{
			name:        "Error - blank name",
			input:       ProductCreateDto{ID: 4, Name: "   ", Quantity: 5, Price: 25},
			expectError: perrors.ErrInvalidName,
		},
		{
			name:        "Error - negative price",
			input:       ProductCreateDto{ID: 4, Name: "Arandela", Quantity: 5, Price: -1},
			expectError: perrors.ErrInvalidPrice,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, st := newTestService(seedRows()...)
			// when
			created, err := svc.Create(context.Background(), tc.input)
			// then
			rows, findErr := st.FindAll(context.Background())
			require.NoError(t, findErr)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				assert.Len(t, rows, 2)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Plancha acero 1m²", created.Name)
			assert.True(t, decimal.NewFromInt(125).Equal(created.Value))
			assert.Len(t, rows, 3)
		})
	}
}

func Test_InventoryService_Update(t *testing.T) {
	testCases := []struct {
		name        string
		id          int64
		input       ProductUpdateDto
		expected    *ProductDto
		expectError error
	}{
		{
			name:     "Success - quantity only",
			id:       2,
			input:    ProductUpdateDto{Quantity: ptr(int64(10))},
			expected: &ProductDto{ID: 2, Name: "Tornillo 1/4\"", Quantity: 10, Price: 0.08},
		},
		{
			name:     "Success - full update",
			id:       1,
			input:    ProductReplaceDto{Name: "Clavo 3\"", Quantity: ptr(int64(50)), Price: ptr(0.05)}.ToUpdate(),
			expected: &ProductDto{ID: 1, Name: "Clavo 3\"", Quantity: 50, Price: 0.05},
		},
		{
			name:        "Error - product not found",
			id:          99,
			input:       ProductUpdateDto{Quantity: ptr(int64(10))},
			expectError: perrors.ErrProductNotFound,
		},
		{
			name:        "Error - invalid quantity",
			id:          2,
			input:       ProductUpdateDto{Quantity: ptr(int64(-10))},
			expectError: perrors.ErrInvalidQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, _ := newTestService(seedRows()...)
			// when
			updated, err := svc.Update(context.Background(), tc.id, tc.input)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.ID, updated.ID)
			assert.Equal(t, tc.expected.Name, updated.Name)
			assert.Equal(t, tc.expected.Quantity, updated.Quantity)
			assert.Equal(t, tc.expected.Price, updated.Price)
		})
	}
}

func Test_InventoryService_DeleteByID(t *testing.T) {
	testCases := []struct {
		name        string
		id          int64
		expectError error
	}{
		{name: "Success - product deleted", id: 1},
		{name: "Error - product not found", id: 99, expectError: perrors.ErrProductNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc, st := newTestService(seedRows()...)
			// when
			err := svc.DeleteByID(context.Background(), tc.id)
			// then
			rows, findErr := st.FindAll(context.Background())
			require.NoError(t, findErr)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Len(t, rows, 2)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, 1)
		})
	}
}

func Test_InventoryService_Valuation(t *testing.T) {
	svc, _ := newTestService(seedRows()...)

	valuation, err := svc.Valuation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, valuation.Count)
	assert.True(t, decimal.RequireFromString("24.6").Equal(valuation.TotalValue))
}
