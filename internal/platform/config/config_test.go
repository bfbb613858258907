package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Address.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Address.ProviderTimeout)
	assert.Equal(t, "https://viacep.com.br", cfg.Address.ViaCEPBaseURL)
	assert.Equal(t, "https://cdn.apicep.com", cfg.Address.ApiCEPBaseURL)
	assert.Empty(t, cfg.Postgres.URL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "client-events", cfg.Kafka.Topic)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CLIENTREG_ADDR", ":9090")
	t.Setenv("ADDRESS_CACHE_TTL", "1h")
	t.Setenv("PROVIDER_TIMEOUT", "750ms")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,,broker-1:9092")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Address.CacheTTL)
	assert.Equal(t, 750*time.Millisecond, cfg.Address.ProviderTimeout)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("unparseable duration", func(t *testing.T) {
		t.Setenv("PROVIDER_TIMEOUT", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		t.Setenv("ADDRESS_CACHE_TTL", "0s")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "ADDRESS_CACHE_TTL")
	})
}
