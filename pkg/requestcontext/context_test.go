package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestContext(t *testing.T) {
	t.Run("request id round trips", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-123")
		assert.Equal(t, "req-123", RequestID(ctx))
	})

	t.Run("missing request id is empty", func(t *testing.T) {
		assert.Empty(t, RequestID(context.Background()))
	})

	t.Run("pinned time wins over wall clock", func(t *testing.T) {
		fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		ctx := WithTime(context.Background(), fixed)
		assert.Equal(t, fixed, Now(ctx))
	})
}
