package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	dErrors "clientreg/pkg/domain-errors"
)

const (
	cepLength      = 8
	stateLength    = 2
	maxFieldLength = 255
)

var upper = cases.Upper(language.Und)

// Address is the canonical shape every provider response is normalized into.
//
// Invariants:
//   - CEP is exactly eight digits and is the cache and store key
//   - Street, Neighborhood and City are at most 255 characters, possibly empty
//   - State is empty or a two-letter uppercase region code
//   - Addresses are never mutated after construction
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// NewAddress trims every field, uppercases the state and enforces the
// address invariants. Missing optional fields stay empty.
func NewAddress(cep, street, neighborhood, city, state string) (*Address, error) {
	a := &Address{
		CEP:          NormalizeCEP(cep),
		Street:       strings.TrimSpace(street),
		Neighborhood: strings.TrimSpace(neighborhood),
		City:         strings.TrimSpace(city),
		State:        upper.String(strings.TrimSpace(state)),
	}
	if !IsValidCEP(a.CEP) {
		return nil, dErrors.New(dErrors.CodeValidation, "cep must have exactly 8 digits")
	}
	if len(a.Street) > maxFieldLength || len(a.Neighborhood) > maxFieldLength || len(a.City) > maxFieldLength {
		return nil, dErrors.New(dErrors.CodeValidation, "address fields must be 255 characters or less")
	}
	if a.State != "" && !isRegionCode(a.State) {
		return nil, dErrors.New(dErrors.CodeValidation, "state must be a two-letter region code")
	}
	return a, nil
}

// NormalizeCEP strips surrounding whitespace and the conventional hyphen
// ("01001-000" becomes "01001000").
func NormalizeCEP(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
}

// IsValidCEP reports whether cep is exactly eight ASCII digits.
func IsValidCEP(cep string) bool {
	if len(cep) != cepLength {
		return false
	}
	return isDigits(cep)
}

func isRegionCode(s string) bool {
	if len(s) != stateLength {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
