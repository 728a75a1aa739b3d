package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	DB       DBConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Identity IdentityConfig
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	DSN    string `env:"DB_DSN,    default=taskboard.db"`
}

type MongoConfig struct {
	URI               string `env:"MONGO_URI,                default=mongodb://localhost:27017"`
	Database          string `env:"MONGO_DB,                 default=taskboard"`
	AttachmentsBucket string `env:"MONGO_ATTACHMENTS_BUCKET, default=attachments"`
	PublicURL         string `env:"BLOB_PUBLIC_URL,          default=http://localhost:8080/files"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,      default=localhost:6379"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type IdentityConfig struct {
	BaseURL string        `env:"IDENTITY_API_URL, default=https://api.clerk.com/v1"`
	APIKey  string        `env:"IDENTITY_API_KEY"`
	Timeout time.Duration `env:"IDENTITY_TIMEOUT, default=10s"`
}

// IsDevelopment reports whether debug-only surfaces (swagger, error details)
// should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return &cfg, nil
}
