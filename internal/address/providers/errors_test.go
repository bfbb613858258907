package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrors(t *testing.T) {
	t.Run("category survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", NewProviderError(ErrorNotFound, "viacep", "cep not found", nil))
		assert.Equal(t, ErrorNotFound, GetCategory(err))
		assert.True(t, IsNotFound(err))
	})

	t.Run("foreign errors are internal", func(t *testing.T) {
		assert.Equal(t, ErrorInternal, GetCategory(errors.New("boom")))
	})

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		err := ClassifyTransportError("apicep", fmt.Errorf("get: %w", context.DeadlineExceeded))
		assert.Equal(t, ErrorTimeout, err.Category)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other transport failures are outages", func(t *testing.T) {
		err := ClassifyTransportError("apicep", errors.New("connection refused"))
		assert.Equal(t, ErrorProviderOutage, err.Category)
		assert.Contains(t, err.Error(), "provider apicep [provider_outage]")
	})
}
