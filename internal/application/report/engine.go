package report

import (
	"sort"

	"github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rankingSize caps every ranking report
const rankingSize = 10

// ClientSource supplies the clients a report runs over. Implemented by
// the client repository, so rankings reflect the same list the rest of
// the application sees.
type ClientSource interface {
	AllClients() []*client.Client
}

// ConsumerRank is one row of the top-consumers report
type ConsumerRank struct {
	ClientID   uuid.UUID       `json:"client_id"`
	Name       string          `json:"name"`
	SocialName string          `json:"social_name"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
}

// ItemRank is one row of the top-products or top-services report.
// Revenue sums the prices captured on each consumption link, so it
// reflects what was actually charged, not the current catalog price.
type ItemRank struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// GenderBucket is one slice of the gender distribution report
type GenderBucket struct {
	Gender  client.Gender `json:"gender"`
	Label   string        `json:"label"`
	Count   int           `json:"count"`
	Percent string        `json:"percent"`
}

// Engine computes the ranking and distribution reports from the current
// client list and catalog. Reports are computed on demand from live
// state; nothing is memoized.
type Engine struct {
	source  ClientSource
	company *company.Company
}

// NewEngine creates a report engine over the given client source and
// company aggregate.
func NewEngine(source ClientSource, co *company.Company) *Engine {
	return &Engine{source: source, company: co}
}

// TopConsumers ranks clients by how many items they consumed, most
// first. Ties keep the clients' relative order. At most ten rows.
func (e *Engine) TopConsumers() []ConsumerRank {
	clients := e.source.AllClients()

	ranks := make([]ConsumerRank, 0, len(clients))
	for _, c := range clients {
		ranks = append(ranks, ConsumerRank{
			ClientID:   c.ID,
			Name:       c.Name,
			SocialName: c.SocialName,
			Quantity:   c.TotalConsumedItems(),
			Total:      c.TotalConsumedValue(),
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Quantity > ranks[j].Quantity
	})
	return truncate(ranks)
}

// TopConsumersByValue ranks clients by the total captured value of
// their consumption, most first. At most ten rows.
func (e *Engine) TopConsumersByValue() []ConsumerRank {
	clients := e.source.AllClients()

	ranks := make([]ConsumerRank, 0, len(clients))
	for _, c := range clients {
		ranks = append(ranks, ConsumerRank{
			ClientID:   c.ID,
			Name:       c.Name,
			SocialName: c.SocialName,
			Quantity:   c.TotalConsumedItems(),
			Total:      c.TotalConsumedValue(),
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Total.GreaterThan(ranks[j].Total)
	})
	return truncate(ranks)
}

// TopProducts ranks catalog products by how often they were consumed.
// Only items still in the catalog are ranked: consumption links whose
// item was removed keep existing on the client but match no row here.
func (e *Engine) TopProducts() []ItemRank {
	snap := e.company.Snapshot()

	seeded := make([]ItemRank, 0, len(snap.Products))
	for _, p := range snap.Products {
		seeded = append(seeded, ItemRank{ItemID: p.ID, Name: p.Name, Price: p.Price, Revenue: decimal.Zero})
	}
	return e.rank(seeded, func(c *client.Client) []client.Consumption {
		return c.ConsumedProducts
	})
}

// TopServices ranks catalog services by how often they were consumed,
// with the same matching rules as TopProducts.
func (e *Engine) TopServices() []ItemRank {
	snap := e.company.Snapshot()

	seeded := make([]ItemRank, 0, len(snap.Services))
	for _, s := range snap.Services {
		seeded = append(seeded, ItemRank{ItemID: s.ID, Name: s.Name, Price: s.Price, Revenue: decimal.Zero})
	}
	return e.rank(seeded, func(c *client.Client) []client.Consumption {
		return c.ConsumedServices
	})
}

// GenderDistribution buckets clients by declared gender. Clients with
// an unspecified or unknown gender land in no bucket, so the three
// percentages may sum to less than one hundred.
func (e *Engine) GenderDistribution() []GenderBucket {
	clients := e.source.AllClients()

	counts := map[client.Gender]int{}
	for _, c := range clients {
		counts[c.Gender]++
	}

	total := len(clients)
	buckets := []GenderBucket{
		{Gender: client.GenderMasculine, Label: "Masculino"},
		{Gender: client.GenderFeminine, Label: "Feminino"},
		{Gender: client.GenderOther, Label: "Outro"},
	}
	for i := range buckets {
		buckets[i].Count = counts[buckets[i].Gender]
		buckets[i].Percent = percent(buckets[i].Count, total)
	}
	return buckets
}

// rank tallies consumption links against the seeded catalog rows and
// returns the top rows by quantity, catalog order breaking ties. Each
// matching link adds one to the row's quantity and the link's captured
// price to its revenue.
func (e *Engine) rank(seeded []ItemRank, links func(*client.Client) []client.Consumption) []ItemRank {
	index := make(map[uuid.UUID]int, len(seeded))
	for i, row := range seeded {
		index[row.ItemID] = i
	}

	for _, c := range e.source.AllClients() {
		for _, entry := range links(c) {
			if i, ok := index[entry.ItemID]; ok {
				seeded[i].Quantity++
				seeded[i].Revenue = seeded[i].Revenue.Add(entry.Price)
			}
		}
	}

	sort.SliceStable(seeded, func(i, j int) bool {
		return seeded[i].Quantity > seeded[j].Quantity
	})
	return truncate(seeded)
}

func truncate[T any](rows []T) []T {
	if len(rows) > rankingSize {
		return rows[:rankingSize]
	}
	return rows
}

// percent formats count/total as a percentage with one decimal place.
// A zero total yields "0.0" rather than a division error.
func percent(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	return decimal.NewFromInt(int64(count * 100)).
		DivRound(decimal.NewFromInt(int64(total)), 1).
		StringFixed(1)
}
