package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Locale    LocaleConfig
	Variants  VariantsConfig
	NATS      NATSConfig
	Tracing   TracingConfig
	Sentry    SentryConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	Version        string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout time.Duration
	CORSOrigins    string // Comma-separated list of allowed origins
	SecureCookies  bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int
	MinConns      int
	RunMigrations bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// LocaleConfig holds locale negotiation settings
type LocaleConfig struct {
	Supported    []string
	Default      string
	CookieName   string
	CookieMaxAge time.Duration
}

// VariantsConfig holds content variant resolution settings
type VariantsConfig struct {
	SessionCookie    string
	CacheBackend     string // "memory" or "redis"
	SessionTTL       time.Duration
	QueueSize        int
	Workers          int
	TelemetryTimeout time.Duration

	BreakerInterval  time.Duration
	BreakerTimeout   time.Duration
	BreakerFailures  int
	BreakerSuccesses int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL     string
	Enabled bool
	Subject string
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

// SentryConfig holds Sentry configuration
type SentryConfig struct {
	DSN     string
	Enabled bool
}

// RateLimitConfig holds per-client limits for the public write endpoints
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	Limit         int
	Burst         int
	RedisPrefix   string
}

// Window returns the limiting window, one minute when unset
func (c RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// AdminConfig holds the static token guarding variant management endpoints
type AdminConfig struct {
	Token string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			Version:        getEnv("SERVICE_VERSION", "dev"),
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Second),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
			SecureCookies:  getEnvAsBool("SECURE_COOKIES", false),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "dendrix"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:      getEnvAsInt("DB_MIN_CONNS", 2),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Locale: LocaleConfig{
			Supported:    lowerAll(getEnvAsSlice("SUPPORTED_LOCALES", []string{"et", "en", "ru"})),
			Default:      strings.ToLower(getEnv("DEFAULT_LOCALE", "et")),
			CookieName:   getEnv("LOCALE_COOKIE", "NEXT_LOCALE"),
			CookieMaxAge: getEnvAsDuration("LOCALE_COOKIE_MAX_AGE", 365*24*time.Hour),
		},
		Variants: VariantsConfig{
			SessionCookie:    getEnv("VARIANT_SESSION_COOKIE", "dx_session"),
			CacheBackend:     getEnv("VARIANT_CACHE_BACKEND", "memory"),
			SessionTTL:       getEnvAsDuration("VARIANT_SESSION_TTL", 30*time.Minute),
			QueueSize:        getEnvAsInt("VARIANT_TELEMETRY_QUEUE", 1024),
			Workers:          getEnvAsInt("VARIANT_TELEMETRY_WORKERS", 2),
			TelemetryTimeout: getEnvAsDuration("VARIANT_TELEMETRY_TIMEOUT", 3*time.Second),
			BreakerInterval:  getEnvAsDuration("VARIANT_BREAKER_INTERVAL", time.Minute),
			BreakerTimeout:   getEnvAsDuration("VARIANT_BREAKER_TIMEOUT", 30*time.Second),
			BreakerFailures:  getEnvAsInt("VARIANT_BREAKER_FAILURES", 5),
			BreakerSuccesses: getEnvAsInt("VARIANT_BREAKER_SUCCESSES", 1),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
			Subject: getEnv("NATS_SUBJECT_PREFIX", "dendrix"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio: getEnvAsFloat("TRACING_SAMPLE_RATIO", 0.1),
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Enabled: getEnvAsBool("SENTRY_ENABLED", false),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			Limit:         getEnvAsInt("RATE_LIMIT_LIMIT", 30),
			Burst:         getEnvAsInt("RATE_LIMIT_BURST", 5),
			RedisPrefix:   getEnv("RATE_LIMIT_PREFIX", "rl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail at request time
func (c *Config) Validate() error {
	if len(c.Locale.Supported) == 0 {
		return fmt.Errorf("SUPPORTED_LOCALES must list at least one locale")
	}
	found := false
	for _, l := range c.Locale.Supported {
		if strings.EqualFold(l, c.Locale.Default) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("DEFAULT_LOCALE %q is not in SUPPORTED_LOCALES", c.Locale.Default)
	}
	switch c.Variants.CacheBackend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("VARIANT_CACHE_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown VARIANT_CACHE_BACKEND %q", c.Variants.CacheBackend)
	}
	return nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL returns the database connection string in URL form, as the migrator expects
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// lowerAll lowercases locale tags; the negotiator compares them lowercase
func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
