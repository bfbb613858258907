package apicep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientreg/internal/address/providers"
	"clientreg/internal/client/models"
)

func TestApiCEPResponseParser(t *testing.T) {
	t.Run("maps fields onto the canonical address", func(t *testing.T) {
		body := []byte(`{
			"status": 200,
			"ok": true,
			"code": "01001-000",
			"state": "SP",
			"city": "São Paulo",
			"district": "Sé",
			"address": "Praça da Sé - lado ímpar",
			"statusText": "ok"
		}`)

		addr, err := parseResponse("01001000", http.StatusOK, body)
		require.NoError(t, err)
		assert.Equal(t, &models.Address{
			CEP:          "01001000",
			Street:       "Praça da Sé - lado ímpar",
			Neighborhood: "Sé",
			City:         "São Paulo",
			State:        "SP",
		}, addr)
	})

	t.Run("body status other than 200 means not found", func(t *testing.T) {
		_, err := parseResponse("99999999", http.StatusOK, []byte(`{"status": 404, "ok": false, "message": "CEP not found"}`))
		assert.Equal(t, providers.ErrorNotFound, providers.GetCategory(err))
	})

	t.Run("http 404 means not found", func(t *testing.T) {
		_, err := parseResponse("99999999", http.StatusNotFound, nil)
		assert.Equal(t, providers.ErrorNotFound, providers.GetCategory(err))
	})

	t.Run("rate limiting is an outage", func(t *testing.T) {
		_, err := parseResponse("01001000", http.StatusTooManyRequests, nil)
		assert.Equal(t, providers.ErrorProviderOutage, providers.GetCategory(err))
	})

	t.Run("invalid state is bad data", func(t *testing.T) {
		_, err := parseResponse("01001000", http.StatusOK, []byte(`{"status": 200, "state": "São Paulo"}`))
		assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
	})
}

func TestApiCEPProvider(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":200,"state":"sp","city":"São Paulo","district":"Sé","address":"Praça da Sé"}`))
	}))
	defer srv.Close()

	addr, err := New(srv.URL+"/", time.Second).Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	assert.Equal(t, "/file/apicep/01001000.json", gotPath)
	assert.Equal(t, "SP", addr.State)
}
