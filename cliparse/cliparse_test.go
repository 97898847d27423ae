// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setRequiredEnv sets the secrets every config needs
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_TOKEN_SALT", "test-salt")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_UPLOAD_SIZE", "2MB")
	t.Setenv("RATE_LIMIT", "0")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.MaxUploadSize != 2_000_000 {
		t.Errorf("expected 2MB upload limit, got %d", cfg.MaxUploadSize)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("expected rate limit disabled, got %v", cfg.RateLimit)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.AdminTokenTTL != 12*time.Hour {
		t.Errorf("expected 12h TTL, got %v", cfg.AdminTokenTTL)
	}
	if cfg.UploadProvider != ProviderLocal {
		t.Errorf("expected local uploads, got %s", cfg.UploadProvider)
	}
	if cfg.PublicBaseURL != "http://localhost:3318" {
		t.Errorf("unexpected base URL %s", cfg.PublicBaseURL)
	}
	if cfg.MaxUploadSize != 10_000_000 {
		t.Errorf("expected 10MB upload limit, got %d", cfg.MaxUploadSize)
	}
	if cfg.RateLimit != 5 || cfg.RateBurst != 10 {
		t.Errorf("unexpected rate settings %v/%d", cfg.RateLimit, cfg.RateBurst)
	}
	if cfg.TrustProxy {
		t.Error("proxy headers should not be trusted by default")
	}
}

func TestParseFlags_TrustProxy(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "palette.yaml")
	if err := os.WriteFile(path, []byte("trust_proxy: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.TrustProxy {
		t.Error("expected trust_proxy from file")
	}

	// env and flags can turn it back off
	t.Setenv("TRUST_PROXY", "false")
	cfg, err = ParseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TrustProxy {
		t.Error("env should override file")
	}

	cfg, err = ParseFlags([]string{"-c", path, "-trust-proxy"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.TrustProxy {
		t.Error("flag should override env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:other.db", "-admin-password", "pw", "-rate", "0"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:other.db" {
		t.Errorf("CLI should override env: got %s", cfg.DatabaseURL)
	}
	if cfg.AdminPassword != "pw" {
		t.Errorf("CLI should override env: got %s", cfg.AdminPassword)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("expected explicit zero rate to disable limiting, got %v", cfg.RateLimit)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9100")

	path := filepath.Join(t.TempDir(), "palette.yaml")
	yaml := `
port: 7000
upload_provider: smms
smms_token: from-file
max_upload_size: 512KiB
admin_token_ttl: 30m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}

	// env beats file
	if cfg.Port != 9100 {
		t.Errorf("env should override file: expected 9100, got %d", cfg.Port)
	}
	if cfg.UploadProvider != ProviderSMMS || cfg.SMMSToken != "from-file" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MaxUploadSize != 512*1024 {
		t.Errorf("expected 512KiB, got %d", cfg.MaxUploadSize)
	}
	if cfg.AdminTokenTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.AdminTokenTTL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing password", map[string]string{"ADMIN_PASSWORD": ""}, nil},
		{"missing salt", map[string]string{"ADMIN_TOKEN_SALT": ""}, nil},
		{"missing database", map[string]string{"DATABASE_URL": ""}, nil},
		{"bad database type", nil, []string{"-t", "mysql"}},
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"bad upload size", nil, []string{"-max-upload", "lots"}},
		{"bad ttl", nil, []string{"-admin-ttl", "soon"}},
		{"unknown provider", nil, []string{"-upload", "s3"}},
		{"smms without token", nil, []string{"-upload", "smms"}},
		{"negative rate", nil, []string{"-rate", "-1"}},
		{"bad trust proxy", map[string]string{"TRUST_PROXY": "maybe"}, nil},
		{"missing config file", nil, []string{"-c", "/nonexistent/palette.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
