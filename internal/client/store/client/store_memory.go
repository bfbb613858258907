package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"clientreg/internal/client/models"
	"clientreg/pkg/platform/sentinel"
)

// InMemoryStore keeps clients in a map. Email and phone uniqueness are
// checked under the write lock so concurrent saves cannot both succeed.
type InMemoryStore struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]models.Client
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{clients: make(map[uuid.UUID]models.Client)}
}

func (s *InMemoryStore) Save(_ context.Context, c *models.Client) error {
	if c == nil {
		return fmt.Errorf("client is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.ID]; ok {
		return fmt.Errorf("save client %s: %w", c.ID, sentinel.ErrConflict)
	}
	for _, existing := range s.clients {
		if existing.Email == c.Email || existing.Phone == c.Phone {
			return fmt.Errorf("save client: email or phone in use: %w", sentinel.ErrConflict)
		}
	}
	s.clients[c.ID] = *c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.sortedLocked() {
		if c.Email == email || c.Phone == phone {
			return &c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindAll(_ context.Context, page models.Page) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sortedLocked(), page), nil
}

// FindByName matches name as a case-insensitive substring.
func (s *InMemoryStore) FindByName(_ context.Context, name string, page models.Page) ([]*models.Client, error) {
	needle := strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Client
	for _, c := range s.sortedLocked() {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matched = append(matched, c)
		}
	}
	return paginate(matched, page), nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.clients, id)
	return nil
}

// sortedLocked returns clients ordered by creation time then id.
func (s *InMemoryStore) sortedLocked() []models.Client {
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Client) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func paginate(all []models.Client, page models.Page) []*models.Client {
	out := make([]*models.Client, 0)
	start := page.Offset()
	if start >= len(all) {
		return out
	}
	end := min(start+page.Limit, len(all))
	for i := start; i < end; i++ {
		c := all[i]
		out = append(out, &c)
	}
	return out
}
