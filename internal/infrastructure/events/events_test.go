package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *RedisBus {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBus(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubscribeFiltersByParticipant(t *testing.T) {
	ctx := context.Background()
	bus := newTestBus(t)

	events, stop, err := bus.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer stop()

	require.NoError(t, bus.Publish(ctx, domain.Event{Type: domain.EventMatched, ParticipantID: "u2"}))
	require.NoError(t, bus.Publish(ctx, domain.Event{Type: domain.EventVerified, ParticipantID: "u1"}))

	select {
	case ev := <-events:
		assert.Equal(t, domain.EventVerified, ev.Type)
		assert.Equal(t, "u1", ev.ParticipantID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestStopClosesChannel(t *testing.T) {
	bus := newTestBus(t)

	events, stop, err := bus.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	stop()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}
