package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=1h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/csemotors"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Development reports whether the service runs in local development mode.
// The bearer cookie drops its Secure flag only in this mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
