// Package events fans participant state changes out over a Redis channel so
// every API replica can push them to its websocket clients.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/redis/go-redis/v9"
)

const Channel = "techmate:participant_events"

type RedisBus struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisBus(client *redis.Client, log *slog.Logger) *RedisBus {
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, event domain.Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, Channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Subscribe delivers the events of participantID until ctx ends or the
// returned stop func is called. The channel is closed afterwards.
func (b *RedisBus) Subscribe(ctx context.Context, participantID string) (<-chan domain.Event, func(), error) {
	pubsub := b.client.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to events: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan domain.Event, 16)
	messages := pubsub.Channel()

	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event domain.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warn("dropping malformed event", "error", err)
					continue
				}
				if event.ParticipantID != participantID {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel, nil
}
