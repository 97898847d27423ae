// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Votes and ratings deliberately carry no foreign keys: deleting a photo
// leaves them in place as orphans.
const schema = `
-- Photos
CREATE TABLE IF NOT EXISTS photo (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    author TEXT NOT NULL CHECK (author IN ('A', 'B')),
    original_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_photo_original_id ON photo(original_id);
CREATE INDEX IF NOT EXISTS idx_photo_created_at ON photo(created_at);

-- Votes (one per submission, keyed by subject)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    original_id TEXT NOT NULL,
    winner TEXT NOT NULL CHECK (winner IN ('A', 'B')),
    voter TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_original_id ON vote(original_id);
CREATE INDEX IF NOT EXISTS idx_vote_created_at ON vote(created_at);

-- Ratings (one per submission, keyed by photo)
CREATE TABLE IF NOT EXISTS rating (
    id TEXT PRIMARY KEY,
    photo_id TEXT NOT NULL,
    score INTEGER NOT NULL CHECK (score >= 1 AND score <= 5),
    voter TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rating_photo_id ON rating(photo_id);
CREATE INDEX IF NOT EXISTS idx_rating_created_at ON rating(created_at);
`
