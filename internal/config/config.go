package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = 3002
	DefaultServiceName = "telegram-admin-backend"
	WebhookPath        = "/webhook/telegram"
)

type ServerConfig struct {
	// RawPort is kept as received; ResolvePort turns it into a usable number.
	RawPort        string   `yaml:"port"`
	Env            string   `yaml:"env"` // development | production
	ServiceName    string   `yaml:"service_name"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type TelegramConfig struct {
	Token       string `yaml:"token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
	// APIEndpoint is a tgbotapi endpoint format string ("https://api.telegram.org/bot%s/%s").
	APIEndpoint string `yaml:"api_endpoint"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	TTL               time.Duration `yaml:"ttl"`
	AllowRegistration bool          `yaml:"allow_registration"`
	CookieDomain      string        `yaml:"cookie_domain"`
	LoginRateLimit    int           `yaml:"login_rate_limit"`
	LoginRateWindow   time.Duration `yaml:"login_rate_window"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`

	// Warnings lists the configuration anomalies that were replaced by defaults.
	// Load cannot log them itself because the logger is built from the result.
	Warnings []string `yaml:"-"`
}

// Load builds the process configuration once: defaults, then the optional YAML
// file at path, then .env, then the process environment. Bad values never fail
// the load; they keep their default and are reported in Config.Warnings.
func Load(path string) *Config {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			fileCfg := *cfg
			if err := yaml.Unmarshal(b, &fileCfg); err != nil {
				cfg.warnf("ignoring config file %s: %v", path, err)
			} else {
				*cfg = fileCfg
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			cfg.warnf("ignoring config file %s: %v", path, err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg.applyEnv(os.LookupEnv)
	cfg.normalize()
	return cfg
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Env:         "production",
			ServiceName: DefaultServiceName,
		},
		Log:      LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{MaxConns: 10},
		Telegram: TelegramConfig{APIEndpoint: "https://api.telegram.org/bot%s/%s"},
		Auth: AuthConfig{
			TTL:             12 * time.Hour,
			LoginRateLimit:  5,
			LoginRateWindow: time.Minute,
		},
	}
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	// parsed runs parse on a non-empty value; on failure the current value stays.
	parsed := func(key string, parse func(string) error) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		if err := parse(strings.TrimSpace(v)); err != nil {
			c.warnf("invalid %s %q, keeping default: %v", key, v, err)
		}
	}

	str("PORT", &c.Server.RawPort)
	// APP_ENV is only an alias; NODE_ENV wins when both are set.
	if v, ok := lookup("NODE_ENV"); ok && strings.TrimSpace(v) != "" {
		str("NODE_ENV", &c.Server.Env)
	} else {
		str("APP_ENV", &c.Server.Env)
	}
	str("SERVICE_NAME", &c.Server.ServiceName)
	str("PUBLIC_BASE_URL", &c.Server.PublicBaseURL)
	str("DATABASE_URL", &c.Database.URL)
	str("TELEGRAM_BOT_TOKEN", &c.Telegram.Token)
	str("TELEGRAM_API_ENDPOINT", &c.Telegram.APIEndpoint)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("AUTH_COOKIE_DOMAIN", &c.Auth.CookieDomain)
	str("REDIS_URL", &c.Redis.URL)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	parsed("TELEGRAM_ADMIN_CHAT_ID", func(v string) error {
		id, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			c.Telegram.AdminChatID = id
		}
		return err
	})
	parsed("DB_MAX_CONNS", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 32)
		if err == nil {
			c.Database.MaxConns = int32(n)
		}
		return err
	})
	parsed("REDIS_DB", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			c.Redis.DB = n
		}
		return err
	})
	parsed("LOGIN_RATE_LIMIT", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			c.Auth.LoginRateLimit = n
		}
		return err
	})
	parsed("AUTH_ALLOW_REGISTRATION", func(v string) error {
		b, err := strconv.ParseBool(v)
		if err == nil {
			c.Auth.AllowRegistration = b
		}
		return err
	})
	for key, dst := range map[string]*time.Duration{
		"JWT_TTL":           &c.Auth.TTL,
		"LOGIN_RATE_WINDOW": &c.Auth.LoginRateWindow,
	} {
		parsed(key, func(v string) error {
			d, err := time.ParseDuration(v)
			if err == nil {
				*dst = d
			}
			return err
		})
	}
}

func (c *Config) normalize() {
	c.Server.Env = strings.ToLower(c.Server.Env)
	if c.Server.ServiceName == "" {
		c.Server.ServiceName = DefaultServiceName
	}
	c.Server.PublicBaseURL = strings.TrimRight(c.Server.PublicBaseURL, "/")
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Telegram.APIEndpoint == "" {
		c.Telegram.APIEndpoint = "https://api.telegram.org/bot%s/%s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Auth.TTL <= 0 {
		c.Auth.TTL = 12 * time.Hour
	}
	if c.Auth.LoginRateWindow <= 0 {
		c.Auth.LoginRateWindow = time.Minute
	}
}

// Dev gates error detail in responses and console logging.
func (c *Config) Dev() bool { return c.Server.Env == "development" }

// PersistenceEnabled is false when no DATABASE_URL is configured; the service
// then runs in degraded mode without storing messages.
func (c *Config) PersistenceEnabled() bool { return c.Database.URL != "" }

func (c *Config) GatewayEnabled() bool { return c.Telegram.Token != "" }

func (c *Config) RateLimitEnabled() bool {
	return c.Redis.URL != "" && c.Auth.LoginRateLimit > 0
}

// WebhookURL is the callback registered with Telegram, or "" when no public base URL is set.
func (c *Config) WebhookURL() string {
	if c.Server.PublicBaseURL == "" {
		return ""
	}
	return c.Server.PublicBaseURL + WebhookPath
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
