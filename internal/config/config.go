package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	JWT       JWTConfig
	Store     StoreConfig
	Window    WindowConfig
	RateLimit RateLimitConfig
	Identity  IdentityConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	CORSOrigins []string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Driver string

	BuntPath string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// WindowConfig holds the check-in window durations
type WindowConfig struct {
	Early             time.Duration
	Grace             time.Duration
	Late              time.Duration
	LateRetryInterval time.Duration
}

type RateLimitConfig struct {
	CheckInPerMinute int
}

// IdentityConfig lists the email domains whose local part may be used as an alias
type IdentityConfig struct {
	EmailDomains []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "Local"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Store = StoreConfig{
		Driver:          getEnv("STORE_DRIVER", docstore.DriverBunt),
		BuntPath:        getEnv("BUNTDB_PATH", "attendance.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         redisDB,
		RedisPrefix:     getEnv("REDIS_PREFIX", "attendance:"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "faculty_attendance"),
		MongoCollection: getEnv("MONGO_COLLECTION", "documents"),
	}

	window := WindowConfig{}
	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"CHECKIN_EARLY_WINDOW", "1h", &window.Early},
		{"CHECKIN_GRACE_WINDOW", "30m", &window.Grace},
		{"CHECKIN_LATE_WINDOW", "2h", &window.Late},
		{"CHECKIN_LATE_RETRY_INTERVAL", "30m", &window.LateRetryInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	config.Window = window

	perMinute, err := strconv.Atoi(getEnv("CHECKIN_RATE_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_RATE_LIMIT: %w", err)
	}
	config.RateLimit = RateLimitConfig{CheckInPerMinute: perMinute}
	config.Identity = IdentityConfig{EmailDomains: getEnvSlice("IDENTITY_EMAIL_DOMAINS", nil)}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	switch c.Store.Driver {
	case docstore.DriverBunt:
	case docstore.DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case docstore.DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case docstore.DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Window.Early < 0 || c.Window.Grace < 0 || c.Window.Late < 0 || c.Window.LateRetryInterval < 0 {
		return fmt.Errorf("check-in windows must not be negative")
	}
	if c.Window.Late < c.Window.Grace {
		return fmt.Errorf("CHECKIN_LATE_WINDOW must be at least CHECKIN_GRACE_WINDOW")
	}
	if c.RateLimit.CheckInPerMinute <= 0 {
		return fmt.Errorf("CHECKIN_RATE_LIMIT must be positive")
	}
	return nil
}

// Location returns the configured local timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// StoreOptions converts the store section into docstore options.
func (c *Config) StoreOptions() docstore.Config {
	return docstore.Config{
		Driver:          c.Store.Driver,
		BuntPath:        c.Store.BuntPath,
		PostgresDSN:     c.Store.DatabaseURL,
		RedisAddr:       c.Store.RedisAddr,
		RedisPassword:   c.Store.RedisPassword,
		RedisDB:         c.Store.RedisDB,
		RedisPrefix:     c.Store.RedisPrefix,
		MongoURI:        c.Store.MongoURI,
		MongoDatabase:   c.Store.MongoDatabase,
		MongoCollection: c.Store.MongoCollection,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
