package models

import (
	"strings"

	dErrors "clientreg/pkg/domain-errors"
)

// RegisterRequest carries the caller supplied fields of a registration.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	CEP   string `json:"cep"`
}

// Normalize trims fields and canonicalizes email, phone and CEP.
func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = NormalizePhone(r.Phone)
	r.CEP = NormalizeCEP(r.CEP)
}

// Validate checks that every required field is present and that the CEP
// is well formed, so no lookup is attempted for a malformed code. The
// remaining format rules are enforced by NewClient.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.CEP == "" {
		missing = append(missing, "cep")
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation, "invalid client data: missing "+strings.Join(missing, ", "))
	}
	if !IsValidCEP(r.CEP) {
		return dErrors.New(dErrors.CodeValidation, "cep must have 8 digits")
	}
	return nil
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage applies defaults to out-of-range values and caps the limit.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
