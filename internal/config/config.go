package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process configuration, populated from the environment
type Config struct {
	// HTTPAddr is the listen address for the API server
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// RedisAddr is the Redis host:port
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPassword is the Redis password, empty for none
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB is the Redis database number
	RedisDB int `env:"REDIS_DB" envDefault:"0"`

	// TokenSecret signs auth tokens
	TokenSecret string `env:"TOKEN_SECRET,required,notEmpty"`

	// TokenTTL is how long issued auth tokens stay valid
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// LogLevel is the zerolog level name
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads a .env file when present, then parses the process environment
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
