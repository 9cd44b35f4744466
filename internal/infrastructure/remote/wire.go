package remote

import (
	"github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/domain/shared/valueobject"
)

// clientRecord is the wire representation of a client in the legacy
// service. The schema has no CPF, RG or gender fields, so conversion
// to and from the domain model is deliberately lossy in both
// directions.
type clientRecord struct {
	ID        *int64         `json:"id,omitempty"`
	Nome      string         `json:"nome"`
	SobreNome string         `json:"sobreNome"`
	Email     *string        `json:"email"`
	Endereco  *addressRecord `json:"endereco,omitempty"`
	Telefones []phoneRecord  `json:"telefones"`
}

type addressRecord struct {
	ID                    int64  `json:"id,omitempty"`
	Estado                string `json:"estado"`
	Cidade                string `json:"cidade"`
	Bairro                string `json:"bairro"`
	Rua                   string `json:"rua"`
	Numero                string `json:"numero"`
	CodigoPostal          string `json:"codigoPostal"`
	InformacoesAdicionais string `json:"informacoesAdicionais"`
}

type phoneRecord struct {
	ID     int64  `json:"id,omitempty"`
	DDD    string `json:"ddd"`
	Numero string `json:"numero"`
}

// placeholderAddress returns the fixed address the legacy schema
// requires on writes. The domain model does not track addresses at
// all.
func placeholderAddress() *addressRecord {
	return &addressRecord{
		Estado:       "SP",
		Cidade:       "São Paulo",
		Bairro:       "Centro",
		Rua:          "Rua Padrão",
		Numero:       "123",
		CodigoPostal: "01000-000",
	}
}

// toRecord converts a domain client to the wire representation.
// CPF, RG and gender have no wire fields and are dropped; email is
// always null and the address is the fixed placeholder.
func toRecord(c *client.Client) clientRecord {
	phones := make([]phoneRecord, 0, len(c.Phones))
	for _, p := range c.Phones {
		phones = append(phones, phoneRecord{
			DDD:    p.AreaCode(),
			Numero: p.Number(),
		})
	}
	return clientRecord{
		Nome:      c.Name,
		SobreNome: c.SocialName,
		Email:     nil,
		Endereco:  placeholderAddress(),
		Telefones: phones,
	}
}

// fromRecord converts a wire record to a domain client. CPF and RG
// are left absent and gender is unspecified; the wire schema carries
// none of them, and defaulting is the caller's decision.
func fromRecord(rec clientRecord) (*client.Client, error) {
	socialName := rec.SobreNome
	if socialName == "" {
		socialName = rec.Nome
	}

	c, err := client.NewClient(rec.Nome, socialName, valueobject.CPF{}, client.GenderUnspecified)
	if err != nil {
		return nil, err
	}
	for _, phone := range rec.Telefones {
		c.AttachPhone(valueobject.NewPhoneNumber(phone.DDD, phone.Numero))
	}
	if rec.ID != nil {
		c.SetRemoteID(*rec.ID)
	}
	return c, nil
}
