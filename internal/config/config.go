package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Catalog and wishlist backends.
const (
	CatalogFixture  = "fixture"
	CatalogPostgres = "postgres"

	SlotMemory   = "memory"
	SlotFile     = "file"
	SlotRedis    = "redis"
	SlotPostgres = "postgres"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_ENV"` specify the environment variable name.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"json"` // json or console
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Catalog    CatalogConfig
	Wishlist   WishlistConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// CatalogConfig selects where the static catalog fixture is read from.
type CatalogConfig struct {
	Source      string `envconfig:"CATALOG_SOURCE" default:"fixture"`
	FixturePath string `envconfig:"CATALOG_FIXTURE_PATH" default:"fixtures/catalog.yaml"`
}

// WishlistConfig selects the persisted slot backing the wishlist.
type WishlistConfig struct {
	Backend      string        `envconfig:"WISHLIST_BACKEND" default:"file"`
	Key          string        `envconfig:"WISHLIST_KEY" default:"wishlist"`
	FileDir      string        `envconfig:"WISHLIST_FILE_DIR" default:".storefront"`
	WriteTimeout time.Duration `envconfig:"WISHLIST_WRITE_TIMEOUT" default:"2s"`
}

// RedisConfig holds Redis connection details, used by the redis wishlist backend.
type RedisConfig struct {
	URL      string `envconfig:"REDIS_URL"`
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// PostgresConfig holds PostgreSQL connection details. Only required when a
// postgres backend is selected.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DBName   string `envconfig:"POSTGRES_DBNAME"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName)
}

// UsesPostgres reports whether any backend needs a database connection.
func (c *Config) UsesPostgres() bool {
	return c.Catalog.Source == CatalogPostgres || c.Wishlist.Backend == SlotPostgres
}

// Validate checks backend selections and the settings they depend on.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogFixture:
		if c.Catalog.FixturePath == "" {
			return fmt.Errorf("CATALOG_FIXTURE_PATH is required for the fixture catalog source")
		}
	case CatalogPostgres:
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE: %q", c.Catalog.Source)
	}

	switch c.Wishlist.Backend {
	case SlotMemory, SlotPostgres:
	case SlotFile:
		if c.Wishlist.FileDir == "" {
			return fmt.Errorf("WISHLIST_FILE_DIR is required for the file wishlist backend")
		}
	case SlotRedis:
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_URL or REDIS_ADDR is required for the redis wishlist backend")
		}
	default:
		return fmt.Errorf("invalid WISHLIST_BACKEND: %q", c.Wishlist.Backend)
	}

	if c.Wishlist.Key == "" {
		return fmt.Errorf("WISHLIST_KEY must not be empty")
	}

	if c.UsesPostgres() {
		pg := c.Postgres
		if pg.Host == "" || pg.User == "" || pg.Password == "" || pg.DBName == "" {
			return fmt.Errorf("POSTGRES_HOST, POSTGRES_USER, POSTGRES_PASSWORD and POSTGRES_DBNAME are required for postgres backends")
		}
	}
	return nil
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
