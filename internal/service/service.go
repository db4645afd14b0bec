// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/inventory"
)

// InventoryService defines the methods for managing the product catalog.
// Every call runs against its own Inventory instance, opened and closed within the call.
type InventoryService interface {
	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// List returns the catalog. A blank query lists every product,
	// otherwise products whose name contains the query.
	// The total value always covers the whole catalog.
	List(ctx context.Context, query string) (*CatalogDto, error)

	// Create adds a new product.
	// Returns ErrDuplicateIdentifier if the ID is taken.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update changes the supplied fields of an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Valuation returns the total value and size of the catalog.
	Valuation(ctx context.Context) (*ValuationDto, error)
}

// Scope runs fn against a freshly opened Inventory and closes it afterwards.
type Scope interface {
	With(ctx context.Context, fn func(inv *inventory.Inventory) error) error
}

// Service implements InventoryService on top of per-call inventory scopes.
type Service struct {
	scope Scope
}

// NewService creates a new instance of InventoryService with the provided scope.
func NewService(scope Scope) *Service {
	return &Service{
		scope: scope,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	ID       int64   `json:"id"       validate:"required,gt=0"`
	Name     string  `json:"name"     validate:"required,min=2,max=80"`
	Quantity int64   `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price"    validate:"gte=0"`
}

// ProductUpdateDto represents a partial update. Nil fields are left unchanged.
type ProductUpdateDto struct {
	Name     *string  `json:"name,omitempty"     validate:"omitempty,min=2,max=80"`
	Quantity *int64   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price    *float64 `json:"price,omitempty"    validate:"omitempty,gte=0"`
}

// ProductReplaceDto represents a full update where every field is mandatory.
type ProductReplaceDto struct {
	Name     string   `json:"name"     validate:"required,min=2,max=80"`
	Quantity *int64   `json:"quantity" validate:"required,gte=0"`
	Price    *float64 `json:"price"    validate:"required,gte=0"`
}

// ProductDto represents the data transfer object for a product.
// Value is quantity * price and is read-only.
type ProductDto struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    float64         `json:"price"`
	Value    decimal.Decimal `json:"value"`
}

// CatalogDto is a listing of products together with the catalog valuation.
type CatalogDto struct {
	Products   []ProductDto    `json:"products"`
	TotalValue decimal.Decimal `json:"total_value"`
	Query      string          `json:"query,omitempty"`
}

// ValuationDto summarizes the catalog.
type ValuationDto struct {
	TotalValue decimal.Decimal `json:"total_value"`
	Count      int             `json:"count"`
}

// ToUpdate converts a full update into the partial form.
func (r ProductReplaceDto) ToUpdate() ProductUpdateDto {
	return ProductUpdateDto{
		Name:     &r.Name,
		Quantity: r.Quantity,
		Price:    r.Price,
	}
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	var found *ProductDto
	err := s.scope.With(ctx, func(inv *inventory.Inventory) error {
		p, ok := inv.Get(id)
		if !ok {
			return perrors.ErrProductNotFound
		}
		found = toDto(p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return found, nil
}

// List returns all products, or those matching query, with the catalog total value.
func (s *Service) List(ctx context.Context, query string) (*CatalogDto, error) {
	query = strings.TrimSpace(query)
	catalog := &CatalogDto{Query: query}
	err := s.scope.With(ctx, func(inv *inventory.Inventory) error {
		products := inv.ListAll()
		if query != "" {
			var err error
			if products, err = inv.SearchByName(ctx, query); err != nil {
				return err
			}
		}
		catalog.Products = toDtos(products)
		catalog.TotalValue = inv.TotalValue()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return catalog, nil
}

// Create validates and adds a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p, err := inventory.NewProduct(product.ID, product.Name, product.Quantity, product.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	err = s.scope.With(ctx, func(inv *inventory.Inventory) error {
		return inv.Add(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(p), nil
}

// Update applies a partial update and returns the updated product as a ProductDto.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	var updated *ProductDto
	err := s.scope.With(ctx, func(inv *inventory.Inventory) error {
		found, err := inv.Update(ctx, id, inventory.Changes{
			Name:     product.Name,
			Quantity: product.Quantity,
			Price:    product.Price,
		})
		if err != nil {
			return err
		}
		if !found {
			return perrors.ErrProductNotFound
		}
		p, _ := inv.Get(id)
		updated = toDto(p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	err := s.scope.With(ctx, func(inv *inventory.Inventory) error {
		found, err := inv.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return perrors.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}

// Valuation returns the catalog total value and product count.
func (s *Service) Valuation(ctx context.Context) (*ValuationDto, error) {
	var valuation *ValuationDto
	err := s.scope.With(ctx, func(inv *inventory.Inventory) error {
		valuation = &ValuationDto{TotalValue: inv.TotalValue(), Count: inv.Len()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute valuation: %w", err)
	}
	return valuation, nil
}

// toDto converts an inventory.Product to a ProductDto.
func toDto(p inventory.Product) *ProductDto {
	return &ProductDto{
		ID:       p.ID(),
		Name:     p.Name(),
		Quantity: p.Quantity(),
		Price:    p.Price(),
		Value:    p.Value(),
	}
}

func toDtos(products []inventory.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i, p := range products {
		dtos[i] = *toDto(p)
	}
	return dtos
}
