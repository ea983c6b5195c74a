package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

type sessionRepository struct {
	client *goredis.Client
}

// NewSessionRepository stores token hashes as session:<hash> -> user id with
// a TTL, plus a per-user set so every session of a user can be dropped.
func NewSessionRepository(client *goredis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Create(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+tokenHash, userID, ttl)
	pipe.SAdd(ctx, userSessionKeyPrefix+userID, tokenHash)
	pipe.Expire(ctx, userSessionKeyPrefix+userID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetUserID(ctx context.Context, tokenHash string) (string, error) {
	userID, err := r.client.Get(ctx, sessionKeyPrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", err
	}
	return userID, nil
}

func (r *sessionRepository) Delete(ctx context.Context, tokenHash string) error {
	userID, err := r.GetUserID(ctx, tokenHash)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+tokenHash)
	pipe.SRem(ctx, userSessionKeyPrefix+userID, tokenHash)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	hashes, err := r.client.SMembers(ctx, userSessionKeyPrefix+userID).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, sessionKeyPrefix+h)
	}
	keys = append(keys, userSessionKeyPrefix+userID)
	return r.client.Del(ctx, keys...).Err()
}
