package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"DATABASE_URL", "BETTER_AUTH_SECRET", "BETTER_AUTH_URL", "APP_URL",
	"PORT", "NODE_ENV", "ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME",
	"EMAIL_USER", "EMAIL_PASS", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
	"LOG_LEVEL", "SESSION_TTL",
}

func setRequired(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "bolt://"+filepath.Join(t.TempDir(), "data.db"))
	t.Setenv("BETTER_AUTH_SECRET", "test-secret")
	t.Setenv("BETTER_AUTH_URL", "http://localhost:5000")
	t.Setenv("APP_URL", "http://localhost:3000")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != defaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, defaultPort)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.AdminEmail != defaultAdminEmail || cfg.AdminName != defaultAdminName || cfg.AdminPassword != defaultAdminPassword {
		t.Errorf("unexpected admin defaults: %+v", cfg)
	}
	if cfg.SessionTTL != defaultSessionTTL {
		t.Errorf("SessionTTL = %v, want %v", cfg.SessionTTL, defaultSessionTTL)
	}
	if cfg.Addr() != ":5000" {
		t.Errorf("Addr() = %q, want :5000", cfg.Addr())
	}
	if cfg.GoogleOAuthEnabled() || cfg.MailerEnabled() {
		t.Error("optional integrations should be disabled without credentials")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "BETTER_AUTH_SECRET", "BETTER_AUTH_URL", "APP_URL"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			if !errors.Is(err, ErrMissingVariable) {
				t.Fatalf("Load() error = %v, want ErrMissingVariable", err)
			}
			if !strings.Contains(err.Error(), key) {
				t.Errorf("error %q does not name %s", err, key)
			}
		})
	}
}

func TestLoad_ReportsAllMissingSorted(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_URL", "")
	t.Setenv("DATABASE_URL", "  ")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded, want error")
	}
	if !strings.HasSuffix(err.Error(), "APP_URL, DATABASE_URL") {
		t.Errorf("error = %q, want sorted key list", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "PORT", value: "abc"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "unknown env", key: "NODE_ENV", value: "staging"},
		{name: "auth url not a url", key: "BETTER_AUTH_URL", value: "not-a-url"},
		{name: "bad session ttl", key: "SESSION_TTL", value: "soon"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Load() error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 || !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if !cfg.GoogleOAuthEnabled() {
		t.Error("GoogleOAuthEnabled() = false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SKILLBRIDGE_DOTENV_A=from-file\nSKILLBRIDGE_DOTENV_B=from-file\n"), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Setenv("SKILLBRIDGE_DOTENV_A", "from-process")
	t.Setenv("SKILLBRIDGE_DOTENV_B", "")
	os.Unsetenv("SKILLBRIDGE_DOTENV_B")
	t.Cleanup(func() { os.Unsetenv("SKILLBRIDGE_DOTENV_B") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("SKILLBRIDGE_DOTENV_A"); got != "from-process" {
		t.Errorf("process value overridden: %q", got)
	}
	if got := os.Getenv("SKILLBRIDGE_DOTENV_B"); got != "from-file" {
		t.Errorf("file value not loaded: %q", got)
	}
}

func TestLoad_IgnoresAdminCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_EMAIL", "admin")
	t.Setenv("ADMIN_PASSWORD", "short")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for unused admin values", err)
	}
	if cfg.AdminEmail != "admin" {
		t.Errorf("AdminEmail = %q, want admin", cfg.AdminEmail)
	}
}

func TestValidateAdmin(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "defaults", wantErr: false},
		{name: "admin email malformed", key: "ADMIN_EMAIL", value: "admin", wantErr: true},
		{name: "short admin password", key: "ADMIN_PASSWORD", value: "short", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			if tt.key != "" {
				t.Setenv(tt.key, tt.value)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			err = cfg.ValidateAdmin()
			if tt.wantErr && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("ValidateAdmin() error = %v, want ErrInvalidValue", err)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateAdmin() error = %v", err)
			}
		})
	}
}
