package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL,
		username TEXT NOT NULL,
		tech_stack TEXT,
		password_hash TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'waiting',
		matched BOOLEAN NOT NULL DEFAULT FALSE,
		partner_id UUID,
		question_part TEXT,
		answer_part TEXT,
		hints TEXT[] NOT NULL DEFAULT '{}',
		meeting_location_id INTEGER,
		meeting_location_name TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		verified_at TIMESTAMPTZ,
		matched_at TIMESTAMPTZ,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_active TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		version BIGINT NOT NULL DEFAULT 1,
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_username_key UNIQUE (username)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_pool ON users (status, matched, tech_stack)`,
	`CREATE INDEX IF NOT EXISTS idx_users_partner ON users (partner_id) WHERE partner_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS questions (
		id UUID PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		hints TEXT[] NOT NULL DEFAULT '{}',
		tech_stack TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_active ON questions (active, tech_stack)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		user1_id UUID NOT NULL,
		user2_id UUID NOT NULL,
		question_id TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		hints TEXT[] NOT NULL DEFAULT '{}',
		tech_stack TEXT,
		meeting_location_id INTEGER,
		meeting_location_name TEXT,
		status TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches (user1_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches (user2_id)`,
}

// EnsureSchema creates the users, questions and matches tables if they don't exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
