package catalog

import (
	"strings"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item with a name and a unit price.
// Apart from in-place replacement of name and price through Update,
// the value is immutable after creation.
type Product struct {
	shared.BaseEntity
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewProduct creates a new product with a generated stable ID
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if err := validateItemPrice(price); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Price:      price,
	}, nil
}

// Update replaces the product's name and price, keeping its identity
func (p *Product) Update(name string, price decimal.Decimal) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if err := validateItemPrice(price); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Price = price
	p.Touch()

	return nil
}

func validateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_FAILED", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateItemPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("VALIDATION_FAILED", "Price cannot be negative")
	}
	return nil
}
