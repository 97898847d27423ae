// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Settings are layered. CLI flags beat environment variables, which beat the
optional YAML file, which beats the built-in defaults.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Connection string or SQLite path (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminPassword: Password exchanged for admin sessions (required)
  - AdminTokenSalt: Secret for admin token HMAC (required)
  - AdminTokenTTL: Admin session lifetime (default: 12h)
  - UploadProvider: local or smms (default: local)
  - UploadDir: Directory for local uploads (default: uploads)
  - PublicBaseURL: Prefix for local upload URLs (default: http://localhost:<port>)
  - SMMSToken: SM.MS API token (required for smms)
  - MaxUploadSize: Per-file upload limit, humanized (default: 10MB)
  - RateLimit, RateBurst: Per-client write limiter (default: 5/s, burst 10)

# CLI Flags

	-c              YAML config file
	-p              Server port
	-d              Database URL
	-t              Database type
	-admin-password Admin password
	-admin-salt     Admin token salt
	-admin-ttl      Admin session lifetime
	-upload         Upload provider
	-upload-dir     Local upload directory
	-base-url       Public base URL
	-smms-token     SM.MS API token
	-max-upload     Maximum upload size
	-rate, -burst   Rate limiter settings

# Environment Variables

	CONFIG_FILE, PORT, DATABASE_URL, DATABASE_TYPE, ADMIN_PASSWORD,
	ADMIN_TOKEN_SALT, ADMIN_TOKEN_TTL, UPLOAD_PROVIDER, UPLOAD_DIR,
	PUBLIC_BASE_URL, SMMS_TOKEN, MAX_UPLOAD_SIZE, RATE_LIMIT, RATE_BURST

main loads a .env file first, so any of these may live there.

# Config File

YAML keys use snake_case field names:

	port: 3318
	database_type: postgres
	upload_provider: smms
	max_upload_size: 5MB

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_PASSWORD and ADMIN_TOKEN_SALT must be provided
  - SMMS_TOKEN must be provided when uploading to SM.MS
  - Sizes and durations must parse
*/
package cliparse
