// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"clientreg/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Address  Address
	Kafka    Kafka
	Log      Log
	Tracing  Tracing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"CLIENTREG_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Postgres configures durable storage. An empty URL selects the in-memory
// stores.
type Postgres struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"DATABASE_AUTO_MIGRATE" envDefault:"true"`
}

// Redis configures the address cache. An empty URL selects the in-memory
// cache.
type Redis struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Address configures resolution and caching of CEPs.
type Address struct {
	CacheTTL        time.Duration `env:"ADDRESS_CACHE_TTL" envDefault:"24h"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"5s"`
	ViaCEPBaseURL   string        `env:"VIACEP_BASE_URL" envDefault:"https://viacep.com.br"`
	ApiCEPBaseURL   string        `env:"APICEP_BASE_URL" envDefault:"https://cdn.apicep.com"`
}

// Kafka configures event publishing. No brokers means events are only logged.
type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic       string   `env:"KAFKA_TOPIC" envDefault:"client-events"`
	Partitions  int32    `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	Replication int16    `env:"KAFKA_TOPIC_REPLICATION" envDefault:"1"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE"`
}

// Tracing enables OTLP/HTTP export when Endpoint is set.
type Tracing struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"clientreg"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Kafka.Brokers = strings.DedupeAndTrim(cfg.Kafka.Brokers)
	if cfg.Address.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("ADDRESS_CACHE_TTL must be positive")
	}
	if cfg.Address.ProviderTimeout <= 0 {
		return Config{}, fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	return cfg, nil
}
