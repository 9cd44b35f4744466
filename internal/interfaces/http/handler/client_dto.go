package handler

import (
	"time"

	appclient "github.com/atelier/backend/internal/application/client"
	domainclient "github.com/atelier/backend/internal/domain/client"
)

// CreateClientRequest is the payload for registering a client
type CreateClientRequest struct {
	Name       string         `json:"name" binding:"required"`
	SocialName string         `json:"social_name"`
	CPF        string         `json:"cpf"`
	Gender     string         `json:"gender"`
	Documents  []string       `json:"documents"`
	Phones     []PhonePayload `json:"phones"`
}

// UpdateClientRequest is the payload for editing a client's profile
type UpdateClientRequest struct {
	Name       string `json:"name" binding:"required"`
	SocialName string `json:"social_name"`
	CPF        string `json:"cpf"`
	Gender     string `json:"gender"`
}

// PhonePayload is a phone number in request payloads
type PhonePayload struct {
	AreaCode string `json:"area_code" binding:"required"`
	Number   string `json:"number" binding:"required"`
}

// AttachDocumentRequest is the payload for adding an identity document
type AttachDocumentRequest struct {
	Document string `json:"document" binding:"required"`
}

// PhoneResponse is a phone number in responses
type PhoneResponse struct {
	AreaCode string `json:"area_code"`
	Number   string `json:"number"`
	Full     string `json:"full"`
}

// ConsumptionResponse is one consumption link in responses, carrying
// the name and price captured when the item was consumed.
type ConsumptionResponse struct {
	ItemID string    `json:"item_id"`
	Name   string    `json:"name"`
	Price  string    `json:"price"`
	At     time.Time `json:"at"`
}

// ClientResponse is the full client representation in responses
type ClientResponse struct {
	ID               string                `json:"id"`
	RemoteID         *int64                `json:"remote_id,omitempty"`
	Name             string                `json:"name"`
	SocialName       string                `json:"social_name"`
	Gender           string                `json:"gender"`
	CPF              string                `json:"cpf,omitempty"`
	Documents        []string              `json:"documents"`
	Phones           []PhoneResponse       `json:"phones"`
	ConsumedProducts []ConsumptionResponse `json:"consumed_products"`
	ConsumedServices []ConsumptionResponse `json:"consumed_services"`
	TotalItems       int                   `json:"total_items"`
	TotalValue       string                `json:"total_value"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// SaveResponse wraps a write result with where it landed: "remote"
// when the remote service accepted the write, "local" when it was
// unavailable and the client was kept in the local store instead.
type SaveResponse struct {
	SavedIn string         `json:"saved_in"`
	Client  ClientResponse `json:"client"`
}

// StateResponse exposes the repository's loading state
type StateResponse struct {
	Phase   string           `json:"phase"`
	Error   string           `json:"error,omitempty"`
	Clients []ClientResponse `json:"clients"`
}

func toClientResponse(c *domainclient.Client) ClientResponse {
	documents := make([]string, 0, len(c.Documents))
	for _, rg := range c.Documents {
		documents = append(documents, rg.Value())
	}
	phones := make([]PhoneResponse, 0, len(c.Phones))
	for _, p := range c.Phones {
		phones = append(phones, PhoneResponse{
			AreaCode: p.AreaCode(),
			Number:   p.Number(),
			Full:     p.Full(),
		})
	}
	return ClientResponse{
		ID:               c.ID.String(),
		RemoteID:         c.RemoteID,
		Name:             c.Name,
		SocialName:       c.SocialName,
		Gender:           string(c.Gender),
		CPF:              c.CPF.Value(),
		Documents:        documents,
		Phones:           phones,
		ConsumedProducts: toConsumptionResponses(c.ConsumedProducts),
		ConsumedServices: toConsumptionResponses(c.ConsumedServices),
		TotalItems:       c.TotalConsumedItems(),
		TotalValue:       c.TotalConsumedValue().String(),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toClientResponses(clients []*domainclient.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}

func toConsumptionResponses(links []domainclient.Consumption) []ConsumptionResponse {
	out := make([]ConsumptionResponse, 0, len(links))
	for _, entry := range links {
		out = append(out, ConsumptionResponse{
			ItemID: entry.ItemID.String(),
			Name:   entry.Name,
			Price:  entry.Price.String(),
			At:     entry.At,
		})
	}
	return out
}

func toSaveResponse(outcome appclient.SaveOutcome) SaveResponse {
	return SaveResponse{
		SavedIn: string(outcome.Mode),
		Client:  toClientResponse(outcome.Client),
	}
}

func toStateResponse(state appclient.State) StateResponse {
	return StateResponse{
		Phase:   string(state.Phase),
		Error:   state.Error,
		Clients: toClientResponses(state.Clients),
	}
}
