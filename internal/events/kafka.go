package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// ErrBrokerUnavailable is returned while the publisher is backing off after
// repeated produce failures.
var ErrBrokerUnavailable = errors.New("event broker unavailable")

// KafkaConfig selects the brokers and topic.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	Partitions   int32
	Replication  int16
	WriteTimeout time.Duration
}

// KafkaPublisher produces events to a Kafka topic keyed by client id, so
// events for one client stay ordered within a partition.
type KafkaPublisher struct {
	client      *kgo.Client
	topic       string
	partitions  int32
	replication int16
	timeout     time.Duration
	breaker     *breaker
	logger      *slog.Logger
}

type KafkaOption func(*KafkaPublisher)

func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// NewKafkaPublisher connects to the brokers. The topic is created with
// EnsureTopic, not here.
func NewKafkaPublisher(cfg KafkaConfig, opts ...KafkaOption) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &KafkaPublisher{
		client:      client,
		topic:       cfg.Topic,
		partitions:  max(cfg.Partitions, 1),
		replication: max(cfg.Replication, 1),
		timeout:     timeout,
		breaker:     newBreaker(5, 30*time.Second),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(p.client)
	_, err := adm.CreateTopic(ctx, p.partitions, p.replication, nil, p.topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if !p.breaker.allow() {
		return ErrBrokerUnavailable
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.ClientID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.breaker.failure()
		return fmt.Errorf("produce %s: %w", event.Type, err)
	}
	p.breaker.success()
	p.logger.DebugContext(ctx, "event published", "event_type", event.Type, "client_id", event.ClientID)
	return nil
}

// Ping checks broker connectivity.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}
