package address

import (
	"context"
	"fmt"
	"sync"

	"clientreg/internal/client/models"
	"clientreg/pkg/platform/sentinel"
)

// InMemoryStore keeps the first address saved for each CEP.
type InMemoryStore struct {
	mu        sync.RWMutex
	addresses map[string]models.Address
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{addresses: make(map[string]models.Address)}
}

// Save stores addr unless its CEP is already known.
func (s *InMemoryStore) Save(_ context.Context, addr *models.Address) error {
	if addr == nil {
		return fmt.Errorf("address is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.addresses[addr.CEP]; !ok {
		s.addresses[addr.CEP] = *addr
	}
	return nil
}

func (s *InMemoryStore) FindByPostalCode(_ context.Context, cep string) (*models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr, ok := s.addresses[cep]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &addr, nil
}
