package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The unique index on conversations.participants enforces one conversation
// per distinct participant set; participants are always stored sorted and
// deduplicated, so array equality is set equality.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		avatar_url TEXT,
		farm_type TEXT NOT NULL DEFAULT '',
		crops TEXT[] NOT NULL DEFAULT '{}',
		following TEXT[] NOT NULL DEFAULT '{}',
		followers TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		participants TEXT[] NOT NULL,
		last_message TEXT NOT NULL DEFAULT '',
		last_message_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		avatar_map JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS conversations_participants_key
		ON conversations (participants)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations(id),
		sender TEXT NOT NULL,
		text TEXT NOT NULL,
		seq BIGINT GENERATED ALWAYS AS IDENTITY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS messages_conversation_idx
		ON messages (conversation_id, created_at, seq)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		author TEXT NOT NULL,
		text TEXT NOT NULL,
		image_urls TEXT[] NOT NULL DEFAULT '{}',
		location TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		post_id UUID NOT NULL REFERENCES posts(id),
		author TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		owner TEXT NOT NULL,
		contact TEXT NOT NULL,
		location TEXT NOT NULL,
		next_available TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
