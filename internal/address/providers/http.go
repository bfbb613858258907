package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBytes = 1 << 20

// NewHTTPClient returns the client adapters use. The timeout bounds a single
// call even when the caller's context has no deadline.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Fetch issues a GET against url and returns the status code and body.
// Transport failures come back already categorized.
func Fetch(ctx context.Context, client *http.Client, providerID, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, NewProviderError(ErrorInternal, providerID, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, ClassifyTransportError(providerID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, ClassifyTransportError(providerID, fmt.Errorf("read body: %w", err))
	}
	return resp.StatusCode, body, nil
}

// StatusError categorizes a non-success HTTP status that the adapter did not
// recognize as a not-found signal.
func StatusError(providerID string, status int) *ProviderError {
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return NewProviderError(ErrorProviderOutage, providerID, fmt.Sprintf("unexpected status %d", status), nil)
	}
	return NewProviderError(ErrorBadData, providerID, fmt.Sprintf("unexpected status %d", status), nil)
}
