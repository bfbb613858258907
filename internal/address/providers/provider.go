package providers

import (
	"context"

	"clientreg/internal/client/models"
)

// Provider is the interface every CEP lookup service adapter implements.
type Provider interface {
	// ID returns a stable identifier used in logs and metrics.
	ID() string

	// Lookup resolves a CEP into a canonical address. A CEP the provider does
	// not know comes back as a ProviderError with category ErrorNotFound.
	Lookup(ctx context.Context, cep string) (*models.Address, error)
}
