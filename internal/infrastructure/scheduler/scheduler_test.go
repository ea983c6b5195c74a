package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, now time.Time) *RedisScheduler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisScheduler(client, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return now }
	return s
}

func TestRunDueClaimsOnlyDueTasks(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	require.NoError(t, s.Schedule(ctx, "due", now.Add(-time.Minute)))
	require.NoError(t, s.Schedule(ctx, "later", now.Add(time.Hour)))

	var handled []string
	n, err := s.RunDue(ctx, func(ctx context.Context, id string) error {
		handled = append(handled, id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"due"}, handled)

	_, ok, err := s.DueAt(ctx, "due")
	require.NoError(t, err)
	assert.False(t, ok)

	at, ok, err := s.DueAt(ctx, "later")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Equal(now.Add(time.Hour)))
}

func TestCancelledTaskNeverRuns(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestScheduler(t, now)

	require.NoError(t, s.Schedule(ctx, "u1", now.Add(-time.Second)))
	require.NoError(t, s.Cancel(ctx, "u1"))

	n, err := s.RunDue(ctx, func(ctx context.Context, id string) error {
		t.Fatalf("cancelled task %s ran", id)
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandlerErrorDoesNotStopBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := newTestScheduler(t, now)

	require.NoError(t, s.Schedule(ctx, "a", now.Add(-2*time.Second)))
	require.NoError(t, s.Schedule(ctx, "b", now.Add(-time.Second)))

	var handled []string
	n, err := s.RunDue(ctx, func(ctx context.Context, id string) error {
		handled = append(handled, id)
		if id == "a" {
			return errors.New("store down")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, handled)

	_, ok, err := s.DueAt(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFailedTaskIsRescheduled(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)
	require.NoError(t, s.Schedule(ctx, "u1", now.Add(-time.Second)))

	calls := 0
	failing := func(ctx context.Context, id string) error {
		calls++
		return errors.New("db down")
	}
	_, err := s.RunDue(ctx, failing)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	at, ok, err := s.DueAt(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok, "failed task must stay scheduled")
	assert.True(t, at.Equal(now.Add(DefaultRetryDelay)))

	// not due again before the retry delay
	n, err := s.RunDue(ctx, failing)
	require.NoError(t, err)
	assert.Zero(t, n)

	s.now = func() time.Time { return now.Add(time.Hour) }
	var handled []string
	n, err = s.RunDue(ctx, func(ctx context.Context, id string) error {
		handled = append(handled, id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"u1"}, handled)

	_, ok, err = s.DueAt(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRescheduleKeepsNewerSchedule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)
	require.NoError(t, s.Schedule(ctx, "u1", now.Add(-time.Second)))

	fresh := now.Add(10 * time.Minute)
	_, err := s.RunDue(ctx, func(ctx context.Context, id string) error {
		require.NoError(t, s.Schedule(ctx, id, fresh))
		return errors.New("db down")
	})
	require.NoError(t, err)

	at, ok, err := s.DueAt(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(fresh))
}

func TestRunStopsOnCancel(t *testing.T) {
	now := time.Now()
	s := newTestScheduler(t, now)
	require.NoError(t, s.Schedule(context.Background(), "u1", now.Add(-time.Second)))

	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		s.Run(ctx, func(ctx context.Context, id string) error {
			fired <- id
			return nil
		})
		close(done)
	}()

	select {
	case id := <-fired:
		assert.Equal(t, "u1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not fire")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
