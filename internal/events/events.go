// Package events publishes client lifecycle events. Publishing is best
// effort: callers log a failed publish and carry on.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Type names a client lifecycle event.
type Type string

const (
	ClientRegistered Type = "client.registered"
	ClientDeleted    Type = "client.deleted"
)

// Event is the JSON payload written to the topic.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	ClientID   uuid.UUID `json:"client_id"`
	CEP        string    `json:"cep,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id.
func New(t Type, clientID uuid.UUID, cep string, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		ClientID:   clientID,
		CEP:        cep,
		OccurredAt: now,
	}
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "client event",
		"event_id", event.ID,
		"event_type", event.Type,
		"client_id", event.ClientID,
		"cep", event.CEP,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
