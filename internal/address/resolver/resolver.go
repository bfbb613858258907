// Package resolver turns a CEP into an address by walking an ordered list of
// lookup providers until one succeeds.
//
// Providers are tried sequentially, never raced: the first success wins and
// later providers are not called. Provider failures of any kind are logged
// and skipped. Only when every provider has been tried does the resolver
// report ErrAddressNotFound. The resolver neither caches nor persists.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clientreg/internal/address/metrics"
	"clientreg/internal/address/providers"
	"clientreg/internal/client/models"
)

// ErrAddressNotFound is returned when no provider could resolve the CEP.
var ErrAddressNotFound = errors.New("address not found")

const defaultTimeout = 5 * time.Second

// Resolver queries providers in their configured order.
type Resolver struct {
	providers []providers.Provider
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTimeout bounds each provider call. Zero disables the per-call bound.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = tracer
	}
}

// New builds a resolver over chain, which is consulted in order.
func New(chain []providers.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		providers: append([]providers.Provider(nil), chain...),
		timeout:   defaultTimeout,
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer("clientreg/internal/address/resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first address produced by a provider. The returned
// error wraps ErrAddressNotFound and every provider failure.
func (r *Resolver) Resolve(ctx context.Context, cep string) (*models.Address, error) {
	start := time.Now()
	defer r.metrics.ObserveResolve(start)

	ctx, span := r.tracer.Start(ctx, "address.resolve", trace.WithAttributes(attribute.String("cep", cep)))
	defer span.End()

	var failures *multierror.Error
	for _, p := range r.providers {
		addr, err := r.lookup(ctx, p, cep)
		if err == nil {
			r.metrics.RecordProviderLookup(p.ID(), "success")
			span.SetAttributes(attribute.String("address.provider", p.ID()))
			return addr, nil
		}

		category := providers.GetCategory(err)
		r.metrics.RecordProviderLookup(p.ID(), string(category))
		failures = multierror.Append(failures, err)

		if category == providers.ErrorNotFound {
			r.logger.InfoContext(ctx, "provider has no address for cep",
				"provider", p.ID(),
				"cep", cep,
			)
			continue
		}
		r.logger.WarnContext(ctx, "address provider failed, trying next",
			"provider", p.ID(),
			"cep", cep,
			"category", category,
			"error", err,
		)
	}

	span.SetStatus(codes.Error, ErrAddressNotFound.Error())
	notFound := fmt.Errorf("resolve cep %s: %w", cep, ErrAddressNotFound)
	if failures == nil {
		return nil, notFound
	}
	return nil, multierror.Append(notFound, failures.Errors...)
}

func (r *Resolver) lookup(ctx context.Context, p providers.Provider, cep string) (*models.Address, error) {
	ctx, span := r.tracer.Start(ctx, "address.provider.lookup", trace.WithAttributes(attribute.String("address.provider", p.ID())))
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	addr, err := p.Lookup(ctx, cep)
	if err == nil && addr == nil {
		err = providers.NewProviderError(providers.ErrorBadData, p.ID(), "empty result", nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(providers.GetCategory(err)))
		return nil, err
	}
	return addr, nil
}
