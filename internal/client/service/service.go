package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clientreg/internal/address/resolver"
	"clientreg/internal/client/metrics"
	"clientreg/internal/client/models"
	"clientreg/internal/events"
	dErrors "clientreg/pkg/domain-errors"
	"clientreg/pkg/platform/sentinel"
	"clientreg/pkg/requestcontext"
)

// DefaultCacheTTL is how long a resolved address stays in the cache.
const DefaultCacheTTL = 24 * time.Hour

type ClientStore interface {
	Save(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.Client, error)
	FindAll(ctx context.Context, page models.Page) ([]*models.Client, error)
	FindByName(ctx context.Context, name string, page models.Page) ([]*models.Client, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type AddressStore interface {
	Save(ctx context.Context, addr *models.Address) error
	FindByPostalCode(ctx context.Context, cep string) (*models.Address, error)
}

type AddressCache interface {
	Get(ctx context.Context, cep string) (*models.Address, error)
	Set(ctx context.Context, cep string, addr *models.Address, ttl time.Duration) error
}

type AddressResolver interface {
	Resolve(ctx context.Context, cep string) (*models.Address, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service runs client registration and the client queries.
type Service struct {
	clients   ClientStore
	addresses AddressStore
	cache     AddressCache
	resolver  AddressResolver
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	cacheTTL  time.Duration
	newID     func() uuid.UUID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithCacheTTL overrides DefaultCacheTTL. Non-positive values are ignored.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithIDGenerator replaces uuid.New for client ids.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New constructs a Service. Every collaborator except the publisher is
// required.
func New(clients ClientStore, addresses AddressStore, cache AddressCache, resolver AddressResolver, opts ...Option) (*Service, error) {
	if clients == nil {
		return nil, errors.New("client store is required")
	}
	if addresses == nil {
		return nil, errors.New("address store is required")
	}
	if cache == nil {
		return nil, errors.New("address cache is required")
	}
	if resolver == nil {
		return nil, errors.New("address resolver is required")
	}
	s := &Service{
		clients:   clients,
		addresses: addresses,
		cache:     cache,
		resolver:  resolver,
		logger:    slog.New(slog.DiscardHandler),
		cacheTTL:  DefaultCacheTTL,
		newID:     uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register validates req, rejects duplicates, resolves the address and
// stores the new client. Any failure leaves no client record behind; cache
// and address writes made before the failure are kept.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.Client, error) {
	start := time.Now()
	client, err := s.register(ctx, req)
	if s.metrics != nil {
		s.metrics.ObserveRegister(start)
		if err != nil {
			s.metrics.RecordFailure(string(dErrors.CodeOf(err)))
		} else {
			s.metrics.IncrementRegistered()
		}
	}
	if err != nil {
		s.logFailure(ctx, "client registration failed", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "client registered",
		"client_id", client.ID,
		"cep", client.CEP,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, events.New(events.ClientRegistered, client.ID, client.CEP, client.CreatedAt))
	return client, nil
}

func (s *Service) register(ctx context.Context, req *models.RegisterRequest) (*models.Client, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := s.clients.FindByEmailOrPhone(ctx, req.Email, req.Phone)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeDuplicateClient, "a client with the same email or phone already exists")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check for existing client")
	}

	addr, err := s.resolveAddress(ctx, req.CEP)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx).UTC().Truncate(time.Microsecond)
	client, err := models.NewClient(s.newID(), req.Name, req.Email, req.Phone, addr, now)
	if err != nil {
		return nil, err
	}

	if err := s.clients.Save(ctx, client); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateClient, "a client with the same email or phone already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save client")
	}
	return client, nil
}

// resolveAddress reads through the cache. On a miss the resolver is
// consulted and a successful result is written to the cache and then to the
// address store. Cache failures degrade to a miss or a skipped write.
func (s *Service) resolveAddress(ctx context.Context, cep string) (*models.Address, error) {
	cached, err := s.cache.Get(ctx, cep)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "address cache read failed",
			"cep", cep,
			"error", err,
		)
	}

	addr, err := s.resolver.Resolve(ctx, cep)
	if err != nil {
		if errors.Is(err, resolver.ErrAddressNotFound) {
			s.logger.InfoContext(ctx, "address not resolved",
				"cep", cep,
				"error", err,
			)
			return nil, dErrors.New(dErrors.CodeAddressNotFound, "address not found for cep "+cep)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve address")
	}

	if err := s.cache.Set(ctx, cep, addr, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "address cache write failed",
			"cep", cep,
			"error", err,
		)
	}
	if err := s.addresses.Save(ctx, addr); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save address")
	}
	return addr, nil
}

// ListClients returns one page of clients in creation order.
func (s *Service) ListClients(ctx context.Context, page models.Page) ([]*models.Client, error) {
	clients, err := s.clients.FindAll(ctx, page)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clients")
	}
	return clients, nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if err := s.clients.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete client")
	}
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	s.logger.InfoContext(ctx, "client deleted",
		"client_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, events.New(events.ClientDeleted, id, "", requestcontext.Now(ctx)))
	return nil
}

// SearchClientsByName matches name as a case-insensitive substring.
func (s *Service) SearchClientsByName(ctx context.Context, name string, page models.Page) ([]*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name query parameter is required")
	}
	clients, err := s.clients.FindByName(ctx, name, page)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search clients")
	}
	return clients, nil
}

// GetAddress returns the stored canonical address for cep.
func (s *Service) GetAddress(ctx context.Context, cep string) (*models.Address, error) {
	cep = models.NormalizeCEP(cep)
	if !models.IsValidCEP(cep) {
		return nil, dErrors.New(dErrors.CodeValidation, "cep must have 8 digits")
	}
	addr, err := s.addresses.FindByPostalCode(ctx, cep)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "address not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load address")
	}
	return addr, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish client event",
			"event_type", event.Type,
			"client_id", event.ClientID,
			"error", err,
		)
	}
}

func (s *Service) logFailure(ctx context.Context, msg string, err error) {
	level := slog.LevelInfo
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, msg,
		"code", dErrors.CodeOf(err),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
