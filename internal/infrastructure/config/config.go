// Package config loads process configuration from environment variables
// using go-envconfig. The JWT signing secret is the one setting without a
// default: a process without it must refuse to start.
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
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	// TokenTTL bounds the lifetime of issued bearer tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=2h"`
	// BcryptCost is fixed at deployment time and never shown to clients.
	BcryptCost int `env:"BCRYPT_COST, default=10"`
	// AuditWorkers sizes the audit-trail dispatcher pool.
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Login LoginConfig
	Admin AdminConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// LoginConfig tunes the redis-backed failed-login throttle.
type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// AdminConfig seeds the first administrator account when the store is
// empty. Seeding is skipped when the password is unset.
type AdminConfig struct {
	Username    string `env:"ADMIN_USERNAME, default=admin"`
	Password    string `env:"ADMIN_PASSWORD"`
	DisplayName string `env:"ADMIN_DISPLAY_NAME, default=Administrator"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecommerce"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}
