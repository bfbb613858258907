// Package apicep adapts the ApiCEP static lookup files.
package apicep

import (
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
	ProviderID     = "apicep"
	DefaultBaseURL = "https://cdn.apicep.com"
)

// Provider looks CEPs up at {baseURL}/file/apicep/{cep}.json.
type Provider struct {
	baseURL string
	client  *http.Client
}

// New builds an ApiCEP adapter. An empty baseURL selects the public CDN.
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
	endpoint := p.baseURL + "/file/apicep/" + url.PathEscape(cep) + ".json"
	status, body, err := providers.Fetch(ctx, p.client, ProviderID, endpoint)
	if err != nil {
		return nil, err
	}
	return parseResponse(cep, status, body)
}

// response mirrors the ApiCEP payload; success carries "status": 200 in the
// body, anything else means the CEP is unknown.
type response struct {
	Status   int    `json:"status"`
	Code     string `json:"code"`
	State    string `json:"state"`
	City     string `json:"city"`
	District string `json:"district"`
	Address  string `json:"address"`
}

func parseResponse(cep string, status int, body []byte) (*models.Address, error) {
	switch {
	case status == http.StatusNotFound:
		return nil, providers.NewProviderError(providers.ErrorNotFound, ProviderID, "cep not found", nil)
	case status != http.StatusOK:
		return nil, providers.StatusError(ProviderID, status)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, ProviderID, "decode response", err)
	}
	if resp.Status != http.StatusOK {
		return nil, providers.NewProviderError(providers.ErrorNotFound, ProviderID, "cep not found", nil)
	}

	addr, err := models.NewAddress(cep, resp.Address, resp.District, resp.City, resp.State)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, ProviderID, "normalize address", err)
	}
	return addr, nil
}
