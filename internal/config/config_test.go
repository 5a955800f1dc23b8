// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads, so tests can start clean.
var allEnvVars = []string{
	"ENV_FILE",
	"APP_HOST", "APP_PORT", "APP_ENV",
	"DATABASE_URL", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_MAX_CONNS",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"AI_PROVIDER", "GEMINI_API_KEY", "GOOGLE_GENAI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"CLAUDE_API_KEY", "CLAUDE_MODEL", "MISTRAL_API_KEY", "MISTRAL_MODEL",
	"RESEND_API_KEY", "MAIL_FROM_ADDRESS", "RECIPIENT_EMAIL", "PROVIDER_TIMEOUT",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"CORS_ALLOWED_ORIGINS",
}

// clearEnv sets every config variable to empty, which envOrDefault treats
// the same as unset, and points ENV_FILE at a file that does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("DBUser", cfg.DBUser, "ourshop")
	check("DBName", cfg.DBName, "ourshop")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("AIProvider", cfg.AIProvider, "gemini")
	check("GeminiModel", cfg.GeminiModel, "gemini-2.0-flash")
	check("RecipientEmail", cfg.RecipientEmail, "ourshop005@gmail.com")
	check("MailFrom", cfg.MailFrom, "onboarding@resend.dev")
	check("S3Bucket", cfg.S3Bucket, "ourshop-public")

	if cfg.DBMaxConns != 10 {
		t.Errorf("DBMaxConns = %d, want 10", cfg.DBMaxConns)
	}
	if cfg.ProviderTimeout != 20*time.Second {
		t.Errorf("ProviderTimeout = %s, want 20s", cfg.ProviderTimeout)
	}
	if cfg.MailConfigured() {
		t.Error("MailConfigured() = true with no RESEND_API_KEY")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for default env")
	}
}

// TestLoad_EnvOverrides verifies that environment variables override defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	overrides := map[string]string{
		"APP_PORT":             "9090",
		"APP_ENV":              "testing",
		"POSTGRES_MAX_CONNS":   "25",
		"AI_PROVIDER":          "openai",
		"OPENAI_API_KEY":       "sk-test-key",
		"RESEND_API_KEY":       "re_test",
		"RECIPIENT_EMAIL":      "owner@example.com",
		"PROVIDER_TIMEOUT":     "5s",
		"CORS_ALLOWED_ORIGINS": "https://ourshop.example, https://admin.ourshop.example",
	}
	for key, val := range overrides {
		t.Setenv(key, val)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.Env != "testing" || cfg.AIProvider != "openai" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.DBMaxConns != 25 {
		t.Errorf("DBMaxConns = %d, want 25", cfg.DBMaxConns)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Errorf("ProviderTimeout = %s, want 5s", cfg.ProviderTimeout)
	}
	if !cfg.MailConfigured() {
		t.Error("MailConfigured() = false with RESEND_API_KEY set")
	}
	if cfg.RecipientEmail != "owner@example.com" {
		t.Errorf("RecipientEmail = %q", cfg.RecipientEmail)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.ourshop.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_GeminiKeyAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_GENAI_API_KEY", "legacy-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiKey != "legacy-key" {
		t.Errorf("GeminiKey = %q, want legacy-key", cfg.GeminiKey)
	}

	t.Setenv("GEMINI_API_KEY", "new-key")
	cfg, _ = Load()
	if cfg.GeminiKey != "new-key" {
		t.Errorf("GeminiKey = %q, want new-key to win", cfg.GeminiKey)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value, wantErr string
	}{
		{"bad timeout", "PROVIDER_TIMEOUT", "soon", "PROVIDER_TIMEOUT"},
		{"negative timeout", "PROVIDER_TIMEOUT", "-1s", "PROVIDER_TIMEOUT"},
		{"bad max conns", "POSTGRES_MAX_CONNS", "lots", "POSTGRES_MAX_CONNS"},
		{"zero max conns", "POSTGRES_MAX_CONNS", "0", "POSTGRES_MAX_CONNS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

// TestLoad_ProductionRequiresPassword verifies that production mode rejects
// the default "changeme" password unless a full DATABASE_URL is given.
func TestLoad_ProductionRequiresPassword(t *testing.T) {
	t.Run("rejects default password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for default password in production")
		}
	})

	t.Run("accepts real password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cret")
		if _, err := Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}
	})

	t.Run("accepts database url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("DATABASE_URL", "postgres://u:p@db/ourshop")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.DSN() != "postgres://u:p@db/ourshop" {
			t.Errorf("DSN() = %q", cfg.DSN())
		}
	})
}

// TestLoad_DotEnvFile verifies that values from a .env file are used when
// the process environment does not set them.
func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("RECIPIENT_EMAIL=dotenv@example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	// godotenv never overrides variables that are already present, so the
	// cleared variable has to be removed outright for the file to apply.
	os.Unsetenv("RECIPIENT_EMAIL")
	t.Cleanup(func() { os.Unsetenv("RECIPIENT_EMAIL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RecipientEmail != "dotenv@example.com" {
		t.Errorf("RecipientEmail = %q, want value from .env", cfg.RecipientEmail)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	want := "postgres://u:p@h:1/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
