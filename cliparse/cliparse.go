package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Upload providers
const (
	ProviderLocal = "local"
	ProviderSMMS  = "smms"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	AdminPassword  string
	AdminTokenSalt string
	AdminTokenTTL  time.Duration

	UploadProvider string
	UploadDir      string
	PublicBaseURL  string
	SMMSToken      string
	MaxUploadSize  int64

	// RateLimit is requests per second per client on write routes; 0 disables
	RateLimit float64
	RateBurst int

	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable behind a reverse proxy that sets those headers.
	TrustProxy bool
}

// fileConfig mirrors Config for the optional YAML file
type fileConfig struct {
	Port           int      `yaml:"port"`
	DatabaseURL    string   `yaml:"database_url"`
	DatabaseType   string   `yaml:"database_type"`
	AdminPassword  string   `yaml:"admin_password"`
	AdminTokenSalt string   `yaml:"admin_token_salt"`
	AdminTokenTTL  string   `yaml:"admin_token_ttl"`
	UploadProvider string   `yaml:"upload_provider"`
	UploadDir      string   `yaml:"upload_dir"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	SMMSToken      string   `yaml:"smms_token"`
	MaxUploadSize  string   `yaml:"max_upload_size"`
	RateLimit      *float64 `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
	TrustProxy     *bool    `yaml:"trust_proxy"`
}

// raw holds every setting as it is layered: defaults, file, env, flags
type raw struct {
	fileConfig
	configFile string
}

func defaults() raw {
	rate := 5.0
	return raw{fileConfig: fileConfig{
		Port:           3318,
		DatabaseType:   "sqlite",
		AdminTokenTTL:  "12h",
		UploadProvider: ProviderLocal,
		UploadDir:      "uploads",
		MaxUploadSize:  "10MB",
		RateLimit:      &rate,
		RateBurst:      10,
	}}
}

// ParseFlags builds the config from flags, environment, an optional YAML
// file, and defaults, in that order of precedence
func ParseFlags(args []string) (Config, error) {
	var flags raw

	fs := flag.NewFlagSet("palette", flag.ContinueOnError)

	fs.StringVar(&flags.configFile, "c", "", "YAML config file")

	// Network config (can be CLI args or env)
	fs.IntVar(&flags.Port, "p", 0, "Server port")
	fs.StringVar(&flags.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&flags.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&flags.AdminPassword, "admin-password", "", "Admin password (prefer env)")
	fs.StringVar(&flags.AdminTokenSalt, "admin-salt", "", "Admin token salt (prefer env)")
	fs.StringVar(&flags.AdminTokenTTL, "admin-ttl", "", "Admin session lifetime, e.g. 12h")

	// Uploads
	fs.StringVar(&flags.UploadProvider, "upload", "", "Upload provider (local or smms)")
	fs.StringVar(&flags.UploadDir, "upload-dir", "", "Directory for local uploads")
	fs.StringVar(&flags.PublicBaseURL, "base-url", "", "Public base URL for local uploads")
	fs.StringVar(&flags.SMMSToken, "smms-token", "", "SM.MS API token (prefer env)")
	fs.StringVar(&flags.MaxUploadSize, "max-upload", "", "Maximum upload size, e.g. 10MB")

	fs.Func("rate", "Write requests per second per client (0 disables)", func(v string) error {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		flags.RateLimit = &rate
		return nil
	})
	fs.IntVar(&flags.RateBurst, "burst", 0, "Rate limiter burst")
	fs.BoolFunc("trust-proxy", "Trust X-Forwarded-For from a reverse proxy", func(v string) error {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		flags.TrustProxy = &trust
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	settings := defaults()

	if flags.configFile == "" {
		flags.configFile = os.Getenv("CONFIG_FILE")
	}
	if flags.configFile != "" {
		if err := settings.loadFile(flags.configFile); err != nil {
			return Config{}, err
		}
	}

	if err := settings.applyEnv(); err != nil {
		return Config{}, err
	}
	settings.overlay(flags)

	return settings.resolve()
}

func (s *raw) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	s.overlay(raw{fileConfig: file})
	return nil
}

// Fall back to environment variables
func (s *raw) applyEnv() error {
	var env raw

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		env.Port = port
	}
	if rateStr := os.Getenv("RATE_LIMIT"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return errors.New("invalid RATE_LIMIT env variable")
		}
		env.RateLimit = &rate
	}
	if burstStr := os.Getenv("RATE_BURST"); burstStr != "" {
		burst, err := strconv.Atoi(burstStr)
		if err != nil {
			return errors.New("invalid RATE_BURST env variable")
		}
		env.RateBurst = burst
	}
	if trustStr := os.Getenv("TRUST_PROXY"); trustStr != "" {
		trust, err := strconv.ParseBool(trustStr)
		if err != nil {
			return errors.New("invalid TRUST_PROXY env variable")
		}
		env.TrustProxy = &trust
	}

	env.DatabaseURL = os.Getenv("DATABASE_URL")
	env.DatabaseType = os.Getenv("DATABASE_TYPE")
	env.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	env.AdminTokenSalt = os.Getenv("ADMIN_TOKEN_SALT")
	env.AdminTokenTTL = os.Getenv("ADMIN_TOKEN_TTL")
	env.UploadProvider = os.Getenv("UPLOAD_PROVIDER")
	env.UploadDir = os.Getenv("UPLOAD_DIR")
	env.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	env.SMMSToken = os.Getenv("SMMS_TOKEN")
	env.MaxUploadSize = os.Getenv("MAX_UPLOAD_SIZE")

	s.overlay(env)
	return nil
}

// overlay copies every value set in o over s
func (s *raw) overlay(o raw) {
	if o.Port != 0 {
		s.Port = o.Port
	}
	setString(&s.DatabaseURL, o.DatabaseURL)
	setString(&s.DatabaseType, o.DatabaseType)
	setString(&s.AdminPassword, o.AdminPassword)
	setString(&s.AdminTokenSalt, o.AdminTokenSalt)
	setString(&s.AdminTokenTTL, o.AdminTokenTTL)
	setString(&s.UploadProvider, o.UploadProvider)
	setString(&s.UploadDir, o.UploadDir)
	setString(&s.PublicBaseURL, o.PublicBaseURL)
	setString(&s.SMMSToken, o.SMMSToken)
	setString(&s.MaxUploadSize, o.MaxUploadSize)
	if o.RateLimit != nil {
		s.RateLimit = o.RateLimit
	}
	if o.RateBurst != 0 {
		s.RateBurst = o.RateBurst
	}
	if o.TrustProxy != nil {
		s.TrustProxy = o.TrustProxy
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// resolve validates the layered settings and converts them to a Config
func (s raw) resolve() (Config, error) {
	cfg := Config{
		Port:           s.Port,
		DatabaseURL:    s.DatabaseURL,
		DatabaseType:   s.DatabaseType,
		AdminPassword:  s.AdminPassword,
		AdminTokenSalt: s.AdminTokenSalt,
		UploadProvider: s.UploadProvider,
		UploadDir:      s.UploadDir,
		PublicBaseURL:  s.PublicBaseURL,
		SMMSToken:      s.SMMSToken,
		RateBurst:      s.RateBurst,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}
	if cfg.AdminTokenSalt == "" {
		return Config{}, errors.New("ADMIN_TOKEN_SALT required")
	}

	ttl, err := time.ParseDuration(s.AdminTokenTTL)
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid admin token TTL %q", s.AdminTokenTTL)
	}
	cfg.AdminTokenTTL = ttl

	size, err := humanize.ParseBytes(s.MaxUploadSize)
	if err != nil || size == 0 {
		return Config{}, fmt.Errorf("invalid max upload size %q", s.MaxUploadSize)
	}
	cfg.MaxUploadSize = int64(size)

	switch cfg.UploadProvider {
	case ProviderLocal:
		if cfg.PublicBaseURL == "" {
			cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
		}
	case ProviderSMMS:
		if cfg.SMMSToken == "" {
			return Config{}, errors.New("SMMS_TOKEN required for the smms upload provider")
		}
	default:
		return Config{}, fmt.Errorf("unsupported upload provider %q", cfg.UploadProvider)
	}

	if s.RateLimit != nil {
		cfg.RateLimit = *s.RateLimit
	}
	if cfg.RateLimit < 0 {
		return Config{}, errors.New("rate limit must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		cfg.RateBurst = 1
	}
	if s.TrustProxy != nil {
		cfg.TrustProxy = *s.TrustProxy
	}

	return cfg, nil
}
