// Package scheduler keeps one-shot deferred match tasks in a Redis sorted
// set scored by due time. A task is claimed by removing its member, so each
// task runs once even with several workers polling. A task whose handler
// fails is put back with a delay.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey        = "techmate:deferred_matches"
	DefaultRetryDelay = time.Minute
	batchSize         = 100
)

// Handler is run for each due participant id.
type Handler func(ctx context.Context, participantID string) error

type RedisScheduler struct {
	client     *redis.Client
	key        string
	interval   time.Duration
	retryDelay time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func NewRedisScheduler(client *redis.Client, interval time.Duration, log *slog.Logger) *RedisScheduler {
	return &RedisScheduler{
		client:     client,
		key:        DefaultKey,
		interval:   interval,
		retryDelay: DefaultRetryDelay,
		log:        log,
		now:        time.Now,
	}
}

// Schedule sets the due time of participantID, replacing any earlier entry.
func (s *RedisScheduler) Schedule(ctx context.Context, participantID string, at time.Time) error {
	err := s.client.ZAdd(ctx, s.key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: participantID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to schedule deferred match: %w", err)
	}
	return nil
}

func (s *RedisScheduler) Cancel(ctx context.Context, participantID string) error {
	if err := s.client.ZRem(ctx, s.key, participantID).Err(); err != nil {
		return fmt.Errorf("failed to cancel deferred match: %w", err)
	}
	return nil
}

// DueAt reports when participantID is due, if it is scheduled at all.
func (s *RedisScheduler) DueAt(ctx context.Context, participantID string) (time.Time, bool, error) {
	score, err := s.client.ZScore(ctx, s.key, participantID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return time.UnixMilli(int64(score)), true, nil
}

// Run polls until ctx is cancelled.
func (s *RedisScheduler) Run(ctx context.Context, handle Handler) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("deferred match scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("deferred match scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunDue(ctx, handle); err != nil && ctx.Err() == nil {
				s.log.Error("deferred match poll failed", "error", err)
			}
		}
	}
}

// RunDue claims and handles every task whose due time has passed and returns
// how many it claimed. A failed task is rescheduled retryDelay later unless
// it was scheduled again meanwhile.
func (s *RedisScheduler) RunDue(ctx context.Context, handle Handler) (int, error) {
	max := strconv.FormatInt(s.now().UnixMilli(), 10)
	ids, err := s.client.ZRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   max,
		Count: batchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	claimed := 0
	for _, id := range ids {
		removed, err := s.client.ZRem(ctx, s.key, id).Result()
		if err != nil {
			return claimed, err
		}
		if removed == 0 {
			// another worker got it first
			continue
		}
		claimed++
		if err := handle(ctx, id); err != nil {
			retryAt := s.now().Add(s.retryDelay)
			s.log.Error("deferred match failed, rescheduling",
				"participant_id", id, "retry_at", retryAt, "error", err)
			if err := s.requeue(ctx, id, retryAt); err != nil {
				return claimed, err
			}
		}
	}
	return claimed, nil
}

func (s *RedisScheduler) requeue(ctx context.Context, participantID string, at time.Time) error {
	err := s.client.ZAddNX(ctx, s.key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: participantID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to reschedule deferred match %s: %w", participantID, err)
	}
	return nil
}
