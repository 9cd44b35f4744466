package catalog

import (
	"strings"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service is a performable catalog item. It carries the same name and
// price contract as Product but is tracked in its own collection and
// its own consumption ranking.
type Service struct {
	shared.BaseEntity
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewService creates a new service with a generated stable ID
func NewService(name string, price decimal.Decimal) (*Service, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	if err := validateItemPrice(price); err != nil {
		return nil, err
	}

	return &Service{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Price:      price,
	}, nil
}

// Update replaces the service's name and price, keeping its identity
func (s *Service) Update(name string, price decimal.Decimal) error {
	if err := validateItemName(name); err != nil {
		return err
	}
	if err := validateItemPrice(price); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.Price = price
	s.Touch()

	return nil
}
