package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clientreg/internal/client/models"
	"clientreg/pkg/platform/sentinel"
)

// PostgresStore persists canonical addresses keyed by CEP.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed address store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts addr; an existing row for the same CEP is left untouched.
func (s *PostgresStore) Save(ctx context.Context, addr *models.Address) error {
	if addr == nil {
		return fmt.Errorf("address is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO addresses (cep, street, neighborhood, city, state)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cep) DO NOTHING
	`, addr.CEP, addr.Street, addr.Neighborhood, addr.City, addr.State)
	if err != nil {
		return fmt.Errorf("save address: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByPostalCode(ctx context.Context, cep string) (*models.Address, error) {
	var addr models.Address
	err := s.db.QueryRowContext(ctx, `
		SELECT cep, street, neighborhood, city, state
		FROM addresses WHERE cep = $1
	`, cep).Scan(&addr.CEP, &addr.Street, &addr.Neighborhood, &addr.City, &addr.State)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	return &addr, nil
}
