package inventory

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	perrors "github.com/teiprometal/inventory/internal/errors"
)

// Product is a validated catalog item.
// The zero value is not a valid product; use NewProduct.
type Product struct {
	id       int64
	name     string
	quantity int64
	price    float64
}

// NewProduct validates every field and returns the product.
// The name is stored trimmed of surrounding whitespace.
func NewProduct(id int64, name string, quantity int64, price float64) (Product, error) {
	if err := validateID(id); err != nil {
		return Product{}, err
	}
	trimmed, err := validateName(name)
	if err != nil {
		return Product{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return Product{}, err
	}
	if err := validatePrice(price); err != nil {
		return Product{}, err
	}
	return Product{id: id, name: trimmed, quantity: quantity, price: price}, nil
}

func (p Product) ID() int64 { return p.id }

func (p Product) Name() string { return p.name }

func (p Product) Quantity() int64 { return p.quantity }

func (p Product) Price() float64 { return p.price }

// NormalizedName is the lower-cased name used by the name index.
func (p Product) NormalizedName() string { return normalize(p.name) }

// WithName returns a copy of p with the name replaced. p is never modified.
func (p Product) WithName(name string) (Product, error) {
	trimmed, err := validateName(name)
	if err != nil {
		return p, err
	}
	p.name = trimmed
	return p, nil
}

// WithQuantity returns a copy of p with the quantity replaced.
func (p Product) WithQuantity(quantity int64) (Product, error) {
	if err := validateQuantity(quantity); err != nil {
		return p, err
	}
	p.quantity = quantity
	return p, nil
}

// WithPrice returns a copy of p with the price replaced.
func (p Product) WithPrice(price float64) (Product, error) {
	if err := validatePrice(price); err != nil {
		return p, err
	}
	p.price = price
	return p, nil
}

// Fields returns the persisted column tuple (id, name, quantity, price).
func (p Product) Fields() (int64, string, int64, float64) {
	return p.id, p.name, p.quantity, p.price
}

// Value is quantity * price without any rounding.
func (p Product) Value() decimal.Decimal {
	return decimal.NewFromFloat(p.price).Mul(decimal.NewFromInt(p.quantity))
}

func (p Product) String() string {
	return fmt.Sprintf("Product(id=%d, name=%q, quantity=%d, price=%.2f)", p.id, p.name, p.quantity, p.price)
}

func normalize(name string) string {
	return strings.ToLower(name)
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", perrors.ErrInvalidIdentifier, id)
	}
	return nil
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", perrors.ErrInvalidName
	}
	return trimmed, nil
}

func validateQuantity(quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: %d", perrors.ErrInvalidQuantity, quantity)
	}
	return nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("%w: %v", perrors.ErrInvalidPrice, price)
	}
	return nil
}
