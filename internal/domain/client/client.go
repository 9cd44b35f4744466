package client

import (
	"strings"
	"time"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gender is the client's self-declared gender. The boundary does not
// enforce an enum; reports bucket by exact value match, so anything
// outside the three known values simply lands in no bucket.
type Gender string

const (
	GenderMasculine   Gender = "M"
	GenderFeminine    Gender = "F"
	GenderOther       Gender = "O"
	GenderUnspecified Gender = "unspecified" // remote-sourced clients carry no gender
)

// Consumption is an append-only link recording that a catalog item was
// used or purchased by a client. The item's name and price are captured
// by value at consumption time; the catalog ID keys report aggregation,
// so same-named catalog items never get conflated.
type Consumption struct {
	ItemID uuid.UUID       `json:"item_id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	At     time.Time       `json:"at"`
}

// Client represents a customer of the shop. Documents, phones and
// consumption links are append-only, order-preserving and allow
// duplicates. CPF and RG are optional: clients converted from the
// remote wire format carry neither, and the caller decides whether to
// default them.
type Client struct {
	shared.BaseEntity
	RemoteID         *int64 `json:"remote_id,omitempty"` // set once a remote create/read has succeeded
	Name             string `json:"name"`
	SocialName       string `json:"social_name"`
	Gender           Gender `json:"gender"`
	CPF              valueobject.CPF
	Documents        []valueobject.RG
	Phones           []valueobject.PhoneNumber
	ConsumedProducts []Consumption `json:"consumed_products"`
	ConsumedServices []Consumption `json:"consumed_services"`
}

// NewClient creates a client registered locally. The CPF may be the
// zero value when the document was not informed.
func NewClient(name, socialName string, cpf valueobject.CPF, gender Gender) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Client name cannot exceed 200 characters")
	}

	if strings.TrimSpace(socialName) == "" {
		socialName = name
	}
	if gender == "" {
		gender = GenderUnspecified
	}

	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		SocialName: socialName,
		Gender:     gender,
		CPF:        cpf,
	}, nil
}

// SetRemoteID records the identifier assigned by the remote service
func (c *Client) SetRemoteID(id int64) {
	c.RemoteID = &id
	c.Touch()
}

// HasRemoteID reports whether the client is known to the remote service
func (c *Client) HasRemoteID() bool {
	return c.RemoteID != nil
}

// AttachDocument appends an RG to the document list. No deduplication
// and no limit: attaching the same document twice yields two entries.
func (c *Client) AttachDocument(rg valueobject.RG) {
	c.Documents = append(c.Documents, rg)
	c.Touch()
}

// AttachPhone appends a phone number to the phone list, with the same
// append-only semantics as AttachDocument.
func (c *Client) AttachPhone(phone valueobject.PhoneNumber) {
	c.Phones = append(c.Phones, phone)
	c.Touch()
}

// ConsumeProduct records that the client consumed the given product.
// The product itself is not mutated; the link is one-directional.
func (c *Client) ConsumeProduct(product *catalog.Product) {
	c.ConsumedProducts = append(c.ConsumedProducts, Consumption{
		ItemID: product.ID,
		Name:   product.Name,
		Price:  product.Price,
		At:     time.Now(),
	})
	c.Touch()
}

// ConsumeService records that the client consumed the given service
func (c *Client) ConsumeService(service *catalog.Service) {
	c.ConsumedServices = append(c.ConsumedServices, Consumption{
		ItemID: service.ID,
		Name:   service.Name,
		Price:  service.Price,
		At:     time.Now(),
	})
	c.Touch()
}

// UpdateProfile replaces the client's editable attributes
func (c *Client) UpdateProfile(name, socialName string, gender Gender, cpf valueobject.CPF) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Client name cannot be empty")
	}

	c.Name = name
	if strings.TrimSpace(socialName) != "" {
		c.SocialName = socialName
	}
	if gender != "" {
		c.Gender = gender
	}
	if !cpf.IsZero() {
		c.CPF = cpf
	}
	c.Touch()

	return nil
}

// TotalConsumedItems returns how many products and services the client
// has consumed, counting repeats.
func (c *Client) TotalConsumedItems() int {
	return len(c.ConsumedProducts) + len(c.ConsumedServices)
}

// TotalConsumedValue sums the captured prices of everything consumed
func (c *Client) TotalConsumedValue() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.ConsumedProducts {
		total = total.Add(entry.Price)
	}
	for _, entry := range c.ConsumedServices {
		total = total.Add(entry.Price)
	}
	return total
}
