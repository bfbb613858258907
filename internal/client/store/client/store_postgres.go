package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clientreg/internal/client/models"
	"clientreg/pkg/platform/sentinel"
)

const uniqueViolation = pq.ErrorCode("23505")

const clientColumns = `id, name, email, phone, cep, street, neighborhood, city, state, created_at`

// PostgresStore persists clients in PostgreSQL. The address is stored as a
// snapshot alongside the client row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed client store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, c *models.Client) error {
	if c == nil {
		return fmt.Errorf("client is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Name, c.Email, c.Phone, c.CEP,
		c.Address.Street, c.Address.Neighborhood, c.Address.City, c.Address.State,
		c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("save client: %s: %w", pqErr.Constraint, sentinel.ErrConflict)
		}
		return fmt.Errorf("save client: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE email = $1 OR phone = $2
		ORDER BY created_at, id
		LIMIT 1
	`, email, phone)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client by email or phone: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindAll(ctx context.Context, page models.Page) ([]*models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+clientColumns+` FROM clients
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return collectClients(rows)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string, page models.Page) ([]*models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, "%"+escapeLike(name)+"%", page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("search clients by name: %w", err)
	}
	return collectClients(rows)
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CEP,
		&c.Address.Street, &c.Address.Neighborhood, &c.Address.City, &c.Address.State,
		&c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Address.CEP = c.CEP
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func collectClients(rows *sql.Rows) ([]*models.Client, error) {
	defer rows.Close()
	out := make([]*models.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
