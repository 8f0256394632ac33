package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestResolvePort(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    int
		wantLog string
	}{
		{"numeric default", "3002", 3002, ""},
		{"numeric custom", "8080", 8080, ""},
		{"padded", " 9000 ", 9000, ""},
		{"empty", "", DefaultPort, ""},
		{"placeholder", "$PORT", DefaultPort, "placeholder"},
		{"embedded placeholder", "80${PORT}", DefaultPort, "placeholder"},
		{"non numeric", "abc", DefaultPort, "invalid PORT"},
		{"out of range", "70000", DefaultPort, "invalid PORT"},
		{"zero", "0", DefaultPort, "invalid PORT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			got := ResolvePort(tc.raw, &logger)
			if got != tc.want {
				t.Fatalf("ResolvePort(%q) = %d, want %d", tc.raw, got, tc.want)
			}
			if tc.wantLog == "" && buf.Len() != 0 {
				t.Errorf("expected no log output, got %s", buf.String())
			}
			if tc.wantLog != "" && !strings.Contains(buf.String(), tc.wantLog) {
				t.Errorf("expected log containing %q, got %s", tc.wantLog, buf.String())
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                    "$PORT",
		"NODE_ENV":                "Development",
		"DATABASE_URL":            "postgres://u:p@localhost:5432/db",
		"TELEGRAM_BOT_TOKEN":      "123:abc",
		"TELEGRAM_ADMIN_CHAT_ID":  "-100200",
		"PUBLIC_BASE_URL":         "https://admin.example.com/",
		"JWT_TTL":                 "30m",
		"AUTH_ALLOW_REGISTRATION": "true",
		"CORS_ALLOWED_ORIGINS":    "https://a.example.com, https://b.example.com",
		"DB_MAX_CONNS":            "4",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.applyEnv(lookup)
	cfg.normalize()

	if len(cfg.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", cfg.Warnings)
	}

	if cfg.Server.RawPort != "$PORT" {
		t.Errorf("raw port should be kept verbatim, got %q", cfg.Server.RawPort)
	}
	if !cfg.Dev() {
		t.Error("expected development mode")
	}
	if !cfg.PersistenceEnabled() || !cfg.GatewayEnabled() {
		t.Error("expected persistence and gateway to be enabled")
	}
	if cfg.RateLimitEnabled() {
		t.Error("rate limit must stay disabled without REDIS_URL")
	}
	if cfg.Telegram.AdminChatID != -100200 {
		t.Errorf("unexpected admin chat id %d", cfg.Telegram.AdminChatID)
	}
	if got := cfg.WebhookURL(); got != "https://admin.example.com/webhook/telegram" {
		t.Errorf("unexpected webhook url %q", got)
	}
	if cfg.Auth.TTL != 30*time.Minute || !cfg.Auth.AllowRegistration {
		t.Errorf("unexpected auth config %+v", cfg.Auth)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Database.MaxConns != 4 {
		t.Errorf("unexpected max conns %d", cfg.Database.MaxConns)
	}
}

func TestApplyEnv_InvalidValuesKeepDefaults(t *testing.T) {
	defaults := Default()
	cases := []struct {
		key   string
		check func(c *Config) bool
	}{
		{"TELEGRAM_ADMIN_CHAT_ID", func(c *Config) bool { return c.Telegram.AdminChatID == 0 }},
		{"DB_MAX_CONNS", func(c *Config) bool { return c.Database.MaxConns == defaults.Database.MaxConns }},
		{"REDIS_DB", func(c *Config) bool { return c.Redis.DB == 0 }},
		{"LOGIN_RATE_LIMIT", func(c *Config) bool { return c.Auth.LoginRateLimit == defaults.Auth.LoginRateLimit }},
		{"AUTH_ALLOW_REGISTRATION", func(c *Config) bool { return !c.Auth.AllowRegistration }},
		{"JWT_TTL", func(c *Config) bool { return c.Auth.TTL == defaults.Auth.TTL }},
		{"LOGIN_RATE_WINDOW", func(c *Config) bool { return c.Auth.LoginRateWindow == defaults.Auth.LoginRateWindow }},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == tc.key {
					return "@admins", true
				}
				return "", false
			}
			cfg := Default()
			cfg.applyEnv(lookup)
			cfg.normalize()

			if !tc.check(cfg) {
				t.Errorf("expected %s to keep its default, got %+v", tc.key, cfg)
			}
			if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], tc.key) {
				t.Errorf("expected one warning naming %s, got %v", tc.key, cfg.Warnings)
			}
		})
	}
}

func TestLogWarnings(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(func(k string) (string, bool) {
		if k == "TELEGRAM_ADMIN_CHAT_ID" {
			return "@admins", true
		}
		return "", false
	})

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	cfg.LogWarnings(&logger)

	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), "TELEGRAM_ADMIN_CHAT_ID") {
		t.Errorf("expected a warn entry naming the variable, got %s", buf.String())
	}
}

func TestApplyEnv_NodeEnvWinsOverAppEnv(t *testing.T) {
	env := map[string]string{"NODE_ENV": "development", "APP_ENV": "production"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := Default()
	cfg.applyEnv(lookup)
	cfg.normalize()
	if !cfg.Dev() {
		t.Errorf("NODE_ENV should take precedence, got env %q", cfg.Server.Env)
	}

	delete(env, "NODE_ENV")
	cfg = Default()
	cfg.applyEnv(lookup)
	cfg.normalize()
	if cfg.Server.Env != "production" {
		t.Errorf("APP_ENV should apply when NODE_ENV is unset, got %q", cfg.Server.Env)
	}
}

func TestDegradedDefaults(t *testing.T) {
	cfg := Default()
	cfg.normalize()
	if cfg.PersistenceEnabled() {
		t.Error("persistence must be disabled without DATABASE_URL")
	}
	if cfg.GatewayEnabled() {
		t.Error("gateway must be disabled without a token")
	}
	if cfg.Dev() {
		t.Error("default env must not be development")
	}
	if cfg.WebhookURL() != "" {
		t.Error("webhook url must be empty without a public base url")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: "8181"
  service_name: admin-api
telegram:
  admin_chat_id: 42
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "")
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("PORT")
	os.Unsetenv("SERVICE_NAME")
	os.Unsetenv("TELEGRAM_ADMIN_CHAT_ID")
	os.Unsetenv("LOG_LEVEL")

	cfg := Load(path)
	if cfg.Server.RawPort != "8181" || cfg.Server.ServiceName != "admin-api" {
		t.Errorf("yaml values not applied: %+v", cfg.Server)
	}
	if cfg.Telegram.AdminChatID != 42 || cfg.Log.Level != "debug" {
		t.Errorf("yaml values not applied: %+v %+v", cfg.Telegram, cfg.Log)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	for _, w := range cfg.Warnings {
		if strings.Contains(w, "absent.yaml") {
			t.Fatalf("expected missing config file to be ignored silently, got %q", w)
		}
	}
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg.Database.MaxConns != 10 || cfg.Auth.TTL != 12*time.Hour {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	found := false
	for _, w := range cfg.Warnings {
		found = found || strings.Contains(w, "config.yaml")
	}
	if !found {
		t.Errorf("expected a warning for the malformed file, got %v", cfg.Warnings)
	}
}
