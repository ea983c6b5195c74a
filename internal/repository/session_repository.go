package repository

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	GetUserID(ctx context.Context, tokenHash string) (string, error)
	Delete(ctx context.Context, tokenHash string) error
	// DeleteByUser drops every session of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
