package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultJWTSecret is only acceptable in development.
const DefaultJWTSecret = "default_secret_key"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the whole process configuration, read from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            string        `env:"APP_PORT" env-default:"3001"`
	Env             string        `env:"APP_ENV" env-default:"development"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig selects the store and tunes the PostgreSQL pool.
type DatabaseConfig struct {
	Store    string `env:"STORE" env-default:"postgres"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:"postgres"`
	Name     string `env:"DB_NAME" env-default:"teamtasks"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"5"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" env-default:"10s"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
	AcquireTimeout  time.Duration `env:"DB_ACQUIRE_TIMEOUT" env-default:"30s"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	Migrate         bool          `env:"DB_MIGRATE" env-default:"true"`
}

// JWTConfig holds the session token settings.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET" env-default:"default_secret_key"`
	Expiration time.Duration `env:"JWT_EXPIRATION" env-default:"24h"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	switch c.Database.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Database.Store)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	if c.Database.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	return nil
}

// IsDevelopment reports whether APP_ENV names a local environment.
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}

// DSN builds the lib/pq key/value connection string.
func (c *Config) DSN() string {
	d := c.Database
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, int(d.ConnectTimeout.Seconds()),
	)
}
