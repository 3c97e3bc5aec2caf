// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Session   SessionConfig   `koanf:"session"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Media     MediaConfig     `koanf:"media"`
	Admin     AdminConfig     `koanf:"admin"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// SessionConfig controls the server-side session store and the cookie
// that carries the session id.
type SessionConfig struct {
	Store      string        `koanf:"store"`
	Secret     string        `koanf:"secret"`
	TTL        time.Duration `koanf:"ttl"`
	CookieName string        `koanf:"cookie_name"`
	Secure     bool          `koanf:"secure"`
	Issuer     string        `koanf:"issuer"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// MediaConfig configures S3-compatible storage for character images.
type MediaConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Bucket        string        `koanf:"bucket"`
	Region        string        `koanf:"region"`
	Endpoint      string        `koanf:"endpoint"`
	PublicBaseURL string        `koanf:"public_base_url"`
	PresignExpire time.Duration `koanf:"presign_expire"`
	UsePathStyle  bool          `koanf:"use_path_style"`
}

type AdminConfig struct {
	Usernames []string `koanf:"usernames"`
}

const minSessionSecretLen = 32

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			loadErr = fmt.Errorf("load .env: %w", err)
			return
		}

		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" && fileExists(configPath) {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				loadErr = fmt.Errorf("load config file: %w", err)
				return
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Tierboard",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             5003,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"session.store":       "redis",
		"session.ttl":         "168h",
		"session.cookie_name": "tierboard_session",
		"session.secure":      false,
		"session.issuer":      "tierboard",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "tierboard",

		"media.enabled":        false,
		"media.region":         "us-east-1",
		"media.presign_expire": "15m",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"SESSION_STORE":               "session.store",
	"SESSION_SECRET":              "session.secret",
	"SESSION_TTL":                 "session.ttl",
	"SESSION_COOKIE_NAME":         "session.cookie_name",
	"SESSION_SECURE":              "session.secure",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"MEDIA_ENABLED":               "media.enabled",
	"MEDIA_BUCKET":                "media.bucket",
	"MEDIA_REGION":                "media.region",
	"MEDIA_ENDPOINT":              "media.endpoint",
	"MEDIA_PUBLIC_BASE_URL":       "media.public_base_url",
	"MEDIA_USE_PATH_STYLE":        "media.use_path_style",
	"CORS_ALLOWED_ORIGINS":        "cors.allowed_origins",
	"ADMIN_USERNAMES":             "admin.usernames",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.Session.Store {
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required")
		}
	case "memory":
	default:
		return fmt.Errorf("session.store must be redis or memory, got %q", c.Session.Store)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if len(c.Session.Secret) < minSessionSecretLen {
			return fmt.Errorf(
				"SESSION_SECRET must be at least %d bytes in production",
				minSessionSecretLen,
			)
		}
		if c.Session.Store == "memory" {
			return fmt.Errorf("memory session store is not allowed in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("SESSION_SECURE must be true in production")
		}
	}

	if c.Media.Enabled && c.Media.Bucket == "" {
		return fmt.Errorf("MEDIA_BUCKET is required when media is enabled")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
