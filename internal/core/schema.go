// AngelaMos | 2026
// schema.go

package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'student',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS login_codes (
		email TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		author BIGINT NOT NULL REFERENCES users(id),
		spelling TEXT NOT NULL,
		meaning TEXT NOT NULL,
		level INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reviewed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id BIGSERIAL PRIMARY KEY,
		author BIGINT NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (author, name)
	)`,
	`CREATE TABLE IF NOT EXISTS word_tags (
		word_id BIGINT NOT NULL REFERENCES words(id),
		tag_id BIGINT NOT NULL REFERENCES tags(id),
		PRIMARY KEY (word_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_author ON words(author)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_author ON tags(author)`,
}

// EnsureSchema creates the tables on startup. Statements are idempotent, so
// running against an already-initialized database is a no-op.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
