package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=168h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	DSN             string        `env:"POSTGRES_DSN, default=postgres://localhost:5432/crm?sslmode=disable"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS, default=10"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME, default=30m"`
}

type RedisConfig struct {
	// Addr may be empty: the service then runs without redis and login
	// throttling is disabled.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
