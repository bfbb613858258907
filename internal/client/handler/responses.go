package handler

import (
	"time"

	"clientreg/internal/client/models"
)

// ClientResponse is the JSON representation of a client.
type ClientResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	CEP       string          `json:"cep"`
	Address   AddressResponse `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
}

type AddressResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toClientResponse(c *models.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CEP:       c.CEP,
		Address:   toAddressResponse(c.Address),
		CreatedAt: c.CreatedAt,
	}
}

// toClientResponses always returns a non-nil slice so empty pages encode as [].
func toClientResponses(clients []*models.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}

func toAddressResponse(a models.Address) AddressResponse {
	return AddressResponse{
		CEP:          a.CEP,
		Street:       a.Street,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}
