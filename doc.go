// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Palette API server.

Palette runs blind A/B surveys of color grading: two authors grade the same
original photo, participants pick the version they prefer or rate single
photos, and the admin dashboard reports who is winning.

# Starting the Server

The server reads a .env file if present, then environment variables,
an optional YAML config file, and CLI flags (flags win):

	DATABASE_URL=palette.db ADMIN_PASSWORD=... ADMIN_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_PASSWORD (--admin-password): Password for the admin session
  - ADMIN_TOKEN_SALT (--admin-salt): Secret for admin token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CONFIG_FILE (-c): YAML config file
  - UPLOAD_PROVIDER (--upload): local or smms (default: local)
  - SMMS_TOKEN (--smms-token): Required for the smms provider
  - MAX_UPLOAD_SIZE (--max-upload): Per-file limit (default: 10MB)
  - RATE_LIMIT, RATE_BURST: Per-client write limit (0 disables)
  - TRUST_PROXY (--trust-proxy): Key clients by X-Forwarded-For behind a reverse proxy

# Architecture

The server uses a handler-based architecture with dependency injection:

  - aggregate: Pair building and vote/rating statistics
  - handlers: HTTP request handlers (photos, votes, ratings, dashboard, session)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, rate limiting, admin gate, JSON helpers
  - models: Records, derived views, request/response types
  - db: Connections, schema, and the record store
  - upload: Local and SM.MS photo storage
  - metrics: Prometheus collectors
  - auth: Admin password check and session tokens
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
