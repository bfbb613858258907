package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "clientreg/pkg/domain-errors"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error hides message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		body := decodeEnvelope(t, w)
		if body.Error.Code != APICodeInternal {
			t.Fatalf("expected code %s, got %q", APICodeInternal, body.Error.Code)
		}
		if strings.Contains(body.Error.Message, "db failed") {
			t.Fatalf("expected internal message to be hidden")
		}
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})

	t.Run("domain failures map to 400 with message", func(t *testing.T) {
		cases := map[dErrors.Code]string{
			dErrors.CodeValidation:      APICodeValidation,
			dErrors.CodeDuplicateClient: APICodeDuplicateClient,
			dErrors.CodeAddressNotFound: APICodeAddressNotFound,
		}
		for code, apiCode := range cases {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(code, "explain"))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected status 400, got %d", code, w.Code)
			}
			body := decodeEnvelope(t, w)
			if body.Error.Code != apiCode || body.Error.Message != "explain" {
				t.Fatalf("%s: unexpected body %+v", code, body)
			}
		}
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "client not found"))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", w.Code)
		}
		if body := decodeEnvelope(t, w); body.Error.Code != APICodeClientNotFound {
			t.Fatalf("unexpected code %q", body.Error.Code)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"João"}`))
		v, err := DecodeJSON[payload](r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Name != "João" {
			t.Fatalf("unexpected name %q", v.Name)
		}
	})

	t.Run("empty body is a validation error", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		_, err := DecodeJSON[payload](r)
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		_, err := DecodeJSON[payload](r)
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
