//go:build integration

package client_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clientreg/internal/client/models"
	"clientreg/internal/client/store/client"
	"clientreg/pkg/platform/sentinel"
	"clientreg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *client.PostgresStore
	base     time.Time
	seq      int
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = client.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "clients", "addresses")
	s.Require().NoError(err)
	s.base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.seq = 0
}

func (s *PostgresStoreSuite) newClient(name string) *models.Client {
	s.seq++
	return &models.Client{
		ID:    uuid.New(),
		Name:  name,
		Email: fmt.Sprintf("pg%d@example.com", s.seq),
		Phone: fmt.Sprintf("219%08d", s.seq),
		CEP:   "01001000",
		Address: models.Address{
			CEP:          "01001000",
			Street:       "Praça da Sé",
			Neighborhood: "Sé",
			City:         "São Paulo",
			State:        "SP",
		},
		CreatedAt: s.base.Add(time.Duration(s.seq) * time.Second),
	}
}

func (s *PostgresStoreSuite) TestSaveAndFindByID() {
	ctx := context.Background()
	c := s.newClient("João Silva")
	s.Require().NoError(s.store.Save(ctx, c))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(*c, *found)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFindByEmailOrPhone() {
	ctx := context.Background()
	c := s.newClient("João Silva")
	s.Require().NoError(s.store.Save(ctx, c))

	byEmail, err := s.store.FindByEmailOrPhone(ctx, c.Email, "0000000000")
	s.Require().NoError(err)
	s.Equal(c.ID, byEmail.ID)

	byPhone, err := s.store.FindByEmailOrPhone(ctx, "x@example.com", c.Phone)
	s.Require().NoError(err)
	s.Equal(c.ID, byPhone.ID)

	_, err = s.store.FindByEmailOrPhone(ctx, "x@example.com", "0000000000")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueConstraintsMapToConflict() {
	ctx := context.Background()
	first := s.newClient("First")
	s.Require().NoError(s.store.Save(ctx, first))

	dupEmail := s.newClient("Second")
	dupEmail.Email = first.Email
	s.ErrorIs(s.store.Save(ctx, dupEmail), sentinel.ErrConflict)

	dupPhone := s.newClient("Third")
	dupPhone.Phone = first.Phone
	s.ErrorIs(s.store.Save(ctx, dupPhone), sentinel.ErrConflict)
}

// TestConcurrentRegistrationSameEmail verifies that racing inserts for one
// email leave exactly one row.
func (s *PostgresStoreSuite) TestConcurrentRegistrationSameEmail() {
	ctx := context.Background()
	const goroutines = 30

	clients := make([]*models.Client, goroutines)
	for i := range clients {
		clients[i] = s.newClient("Racer")
		clients[i].Email = "race@example.com"
	}

	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32
	for _, c := range clients {
		wg.Add(1)
		go func(c *models.Client) {
			defer wg.Done()
			err := s.store.Save(ctx, c)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}(c)
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresStoreSuite) TestPaginationAndSearch() {
	ctx := context.Background()
	names := []string{"Maria Souza", "MARIANA Lima", "Pedro Alves", "Ana_Paula"}
	var ids []uuid.UUID
	for _, name := range names {
		c := s.newClient(name)
		ids = append(ids, c.ID)
		s.Require().NoError(s.store.Save(ctx, c))
	}

	s.Run("lists in creation order", func() {
		got, err := s.store.FindAll(ctx, models.NewPage(1, 3))
		s.Require().NoError(err)
		s.Require().Len(got, 3)
		s.Equal(ids[0], got[0].ID)
		s.Equal(ids[2], got[2].ID)

		rest, err := s.store.FindAll(ctx, models.NewPage(2, 3))
		s.Require().NoError(err)
		s.Require().Len(rest, 1)
		s.Equal(ids[3], rest[0].ID)
	})

	s.Run("search is case-insensitive", func() {
		got, err := s.store.FindByName(ctx, "maria", models.NewPage(1, 10))
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("wildcards in the query match literally", func() {
		got, err := s.store.FindByName(ctx, "_", models.NewPage(1, 10))
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal("Ana_Paula", got[0].Name)

		none, err := s.store.FindByName(ctx, "%", models.NewPage(1, 10))
		s.Require().NoError(err)
		s.Empty(none)
	})
}

func (s *PostgresStoreSuite) TestDeleteByID() {
	ctx := context.Background()
	c := s.newClient("Gone")
	s.Require().NoError(s.store.Save(ctx, c))

	s.Require().NoError(s.store.DeleteByID(ctx, c.ID))
	_, err := s.store.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.DeleteByID(ctx, c.ID), sentinel.ErrNotFound)
}
