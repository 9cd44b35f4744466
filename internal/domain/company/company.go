package company

import (
	"sync"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company is the aggregate root owning the canonical in-memory
// collections of clients, products and services. It is the store of
// record for the catalog and the fallback store for clients when the
// remote service is unavailable, so every local mutation is visible to
// readers immediately.
//
// Collections preserve insertion order, but items are addressed by
// their stable ID for edit and removal, never by position. The HTTP
// server handles requests concurrently, hence the mutex.
type Company struct {
	mu       sync.RWMutex
	clients  []*client.Client
	products []*catalog.Product
	services []*catalog.Service
}

// Snapshot is a point-in-time copy of the aggregate state, safe to
// read without holding the aggregate's lock.
type Snapshot struct {
	Clients  []client.Client
	Products []catalog.Product
	Services []catalog.Service
}

// New creates an empty company aggregate
func New() *Company {
	return &Company{}
}

// AddClient appends a client to the end of the collection
func (co *Company) AddClient(c *client.Client) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.clients = append(co.clients, c)
}

// AddProduct appends a product to the end of the collection
func (co *Company) AddProduct(p *catalog.Product) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.products = append(co.products, p)
}

// AddService appends a service to the end of the collection
func (co *Company) AddService(s *catalog.Service) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.services = append(co.services, s)
}

// GetClient returns a copy of the client with the given ID
func (co *Company) GetClient(id uuid.UUID) (client.Client, error) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	c, err := co.findClientLocked(id)
	if err != nil {
		return client.Client{}, err
	}
	return *c, nil
}

// MutateClient applies fn to the identified client while holding the
// aggregate's write lock and returns a copy of the result. The live
// pointer never escapes the lock, so concurrent snapshots stay safe.
func (co *Company) MutateClient(id uuid.UUID, fn func(*client.Client) error) (client.Client, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	c, err := co.findClientLocked(id)
	if err != nil {
		return client.Client{}, err
	}
	if err := fn(c); err != nil {
		return client.Client{}, err
	}
	return *c, nil
}

// ReplaceClient swaps in an updated client entity at its current slot,
// matching by ID, or appends it when the aggregate has never seen it.
// Used by the fallback path to reconcile clients edited while the
// remote service was down.
func (co *Company) ReplaceClient(updated *client.Client) {
	co.mu.Lock()
	defer co.mu.Unlock()
	for i, c := range co.clients {
		if c.ID == updated.ID {
			co.clients[i] = updated
			return
		}
	}
	co.clients = append(co.clients, updated)
}

// RemoveClient removes the client with the given ID
func (co *Company) RemoveClient(id uuid.UUID) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	for i, c := range co.clients {
		if c.ID == id {
			co.clients = append(co.clients[:i], co.clients[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Client not found")
}

// FindProduct returns a copy of the product with the given ID
func (co *Company) FindProduct(id uuid.UUID) (catalog.Product, error) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	for _, p := range co.products {
		if p.ID == id {
			return *p, nil
		}
	}
	return catalog.Product{}, shared.NewDomainError("NOT_FOUND", "Product not found")
}

// FindService returns a copy of the service with the given ID
func (co *Company) FindService(id uuid.UUID) (catalog.Service, error) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	for _, s := range co.services {
		if s.ID == id {
			return *s, nil
		}
	}
	return catalog.Service{}, shared.NewDomainError("NOT_FOUND", "Service not found")
}

// UpdateProduct replaces the name and price of the identified product
// and returns a copy of the result.
func (co *Company) UpdateProduct(id uuid.UUID, name string, price decimal.Decimal) (catalog.Product, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	for _, p := range co.products {
		if p.ID == id {
			if err := p.Update(name, price); err != nil {
				return catalog.Product{}, err
			}
			return *p, nil
		}
	}
	return catalog.Product{}, shared.NewDomainError("NOT_FOUND", "Product not found")
}

// RemoveProduct removes the identified product from the catalog.
// Consumption links already recorded keep their captured name and
// price; they just stop matching any seeded entry in the rankings.
func (co *Company) RemoveProduct(id uuid.UUID) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	for i, p := range co.products {
		if p.ID == id {
			co.products = append(co.products[:i], co.products[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product not found")
}

// UpdateService replaces the name and price of the identified service
// and returns a copy of the result.
func (co *Company) UpdateService(id uuid.UUID, name string, price decimal.Decimal) (catalog.Service, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	for _, s := range co.services {
		if s.ID == id {
			if err := s.Update(name, price); err != nil {
				return catalog.Service{}, err
			}
			return *s, nil
		}
	}
	return catalog.Service{}, shared.NewDomainError("NOT_FOUND", "Service not found")
}

// RemoveService removes the identified service from the catalog
func (co *Company) RemoveService(id uuid.UUID) error {
	co.mu.Lock()
	defer co.mu.Unlock()
	for i, s := range co.services {
		if s.ID == id {
			co.services = append(co.services[:i], co.services[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Service not found")
}

// Snapshot returns a point-in-time copy of all collections
func (co *Company) Snapshot() Snapshot {
	co.mu.RLock()
	defer co.mu.RUnlock()

	snap := Snapshot{
		Clients:  make([]client.Client, len(co.clients)),
		Products: make([]catalog.Product, len(co.products)),
		Services: make([]catalog.Service, len(co.services)),
	}
	for i, c := range co.clients {
		snap.Clients[i] = *c
	}
	for i, p := range co.products {
		snap.Products[i] = *p
	}
	for i, s := range co.services {
		snap.Services[i] = *s
	}
	return snap
}

func (co *Company) findClientLocked(id uuid.UUID) (*client.Client, error) {
	for _, c := range co.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
}
