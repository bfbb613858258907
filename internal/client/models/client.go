package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	dErrors "clientreg/pkg/domain-errors"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 20
)

// Client is the aggregate root for a registered client.
//
// Invariants:
//   - ID is assigned once at registration and never changes
//   - Name is non-empty and at most 255 characters
//   - Email is a well-formed address, at most 255 characters, unique across clients
//   - Phone is 10 to 20 digits, unique across clients
//   - Address is always present and its CEP matches the client CEP
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CEP       string    `json:"cep"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient composes a client from a validated request and its resolved
// address, enforcing the schema constraints durable storage relies on.
func NewClient(id uuid.UUID, name, email, phone string, address *Address, now time.Time) (*Client, error) {
	if id == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "client id cannot be empty")
	}
	if address == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "client address is required")
	}
	if name == "" || utf8.RuneCountInString(name) > maxFieldLength {
		return nil, dErrors.New(dErrors.CodeValidation, "name must be between 1 and 255 characters")
	}
	if len(email) > maxFieldLength || !govalidator.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	if len(phone) < minPhoneDigits || len(phone) > maxPhoneDigits || !isDigits(phone) {
		return nil, dErrors.New(dErrors.CodeValidation, "phone must have between 10 and 20 digits")
	}
	return &Client{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CEP:       address.CEP,
		Address:   *address,
		CreatedAt: now,
	}, nil
}

// NormalizePhone drops the punctuation people usually type in phone numbers.
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '+':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
}
