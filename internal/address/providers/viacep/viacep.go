// Package viacep adapts the ViaCEP lookup service.
package viacep

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clientreg/internal/address/providers"
	"clientreg/internal/client/models"
)

const (
	ProviderID     = "viacep"
	DefaultBaseURL = "https://viacep.com.br"
)

// Provider looks CEPs up at {baseURL}/ws/{cep}/json/.
type Provider struct {
	baseURL string
	client  *http.Client
}

// New builds a ViaCEP adapter. An empty baseURL selects the public service.
func New(baseURL string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  providers.NewHTTPClient(timeout),
	}
}

func (p *Provider) ID() string {
	return ProviderID
}

func (p *Provider) Lookup(ctx context.Context, cep string) (*models.Address, error) {
	endpoint := p.baseURL + "/ws/" + url.PathEscape(cep) + "/json/"
	status, body, err := providers.Fetch(ctx, p.client, ProviderID, endpoint)
	if err != nil {
		return nil, err
	}
	return parseResponse(cep, status, body)
}

// response mirrors the ViaCEP payload. Unknown CEPs come back as 200 with
// {"erro": true}; some deployments send the flag as a string.
type response struct {
	CEP        string   `json:"cep"`
	Logradouro string   `json:"logradouro"`
	Bairro     string   `json:"bairro"`
	Localidade string   `json:"localidade"`
	UF         string   `json:"uf"`
	Erro       erroFlag `json:"erro"`
}

type erroFlag bool

func (f *erroFlag) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	*f = erroFlag(string(data) == "true")
	return nil
}

func parseResponse(cep string, status int, body []byte) (*models.Address, error) {
	switch {
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		// ViaCEP answers 400 for malformed CEPs.
		return nil, providers.NewProviderError(providers.ErrorNotFound, ProviderID, "cep not found", nil)
	case status != http.StatusOK:
		return nil, providers.StatusError(ProviderID, status)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, ProviderID, "decode response", err)
	}
	if resp.Erro {
		return nil, providers.NewProviderError(providers.ErrorNotFound, ProviderID, "cep not found", nil)
	}

	addr, err := models.NewAddress(cep, resp.Logradouro, resp.Bairro, resp.Localidade, resp.UF)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, ProviderID, "normalize address", err)
	}
	return addr, nil
}
