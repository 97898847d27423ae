// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation, and record persistence.

# Connections

Open accepts either PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.TypeSQLite, "palette.db")
	if err != nil {
		log.Fatal(err)
	}

SQLite connections are limited to a single writer and run in WAL mode.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - photo: One graded rendition (author A or B) of a subject
  - vote: A pairwise preference for one subject
  - rating: A 1-5 score for one photo

There are no foreign keys. Deleting a photo keeps its votes and ratings.

# Store

SQLStore implements Store. Queries are written with ? placeholders and
rebound to $n for PostgreSQL. Lists are ordered newest first and capped
at DefaultLimit rows:

	store := db.NewStore(conn, db.TypeSQLite)
	votes, err := store.ListVotes(ctx, db.Where("originalId", "IMG_001"))

Filtering on a field outside the per-kind allow list returns ErrUnknownField.
*/
package db
