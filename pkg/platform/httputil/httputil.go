// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "clientreg/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies decoded by DecodeJSON.
const maxBodyBytes = 1 << 20

// API error codes exposed in the response envelope.
const (
	APICodeValidation      = "VALIDATION_ERROR"
	APICodeDuplicateClient = "DUPLICATE_CLIENT"
	APICodeAddressNotFound = "ADDRESS_NOT_FOUND"
	APICodeClientNotFound  = "CLIENT_NOT_FOUND"
	APICodeInternal        = "INTERNAL_SERVER_ERROR"
)

// ErrorBody is the inner object of the error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope written for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a status code and error envelope.
// Uncoded errors and CodeInternal never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	status, code := Translate(dErrors.CodeOf(err))
	message := "Internal server error"
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		message = de.Message
	}
	WriteJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// Translate maps a domain code to its HTTP status and API code.
func Translate(code dErrors.Code) (int, string) {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest, APICodeValidation
	case dErrors.CodeDuplicateClient:
		return http.StatusBadRequest, APICodeDuplicateClient
	case dErrors.CodeAddressNotFound:
		return http.StatusBadRequest, APICodeAddressNotFound
	case dErrors.CodeNotFound:
		return http.StatusNotFound, APICodeClientNotFound
	default:
		return http.StatusInternalServerError, APICodeInternal
	}
}

// DecodeJSON decodes the request body into a T. Malformed or oversized bodies
// come back as validation errors.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dErrors.New(dErrors.CodeValidation, "request body is required")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "request body must be valid JSON")
	}
	return &v, nil
}
