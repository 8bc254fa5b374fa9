// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the well-known placeholder secret. It is accepted
// outside production with a startup warning and rejected in production.
const DefaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

// Storage drivers.
const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Storage backend: mongo, postgres or memory
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"mongo"`

	// Document store (MongoDB). MongoURI overrides host and port when set.
	DBHost   string `env:"DB_HOST" envDefault:"localhost"`
	DBPort   int    `env:"DB_PORT" envDefault:"27017"`
	DBName   string `env:"DB_NAME" envDefault:"blog_app"`
	MongoURI string `env:"MONGO_URI"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Cache (Redis). Optional; rate limiting falls back to in-process state.
	RedisURL string `env:"REDIS_URL"`

	// Tokens and passwords
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"your-super-secret-jwt-key-change-this-in-production"`
	JWTAlgorithm string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`
	PasswordHash string        `env:"PASSWORD_HASH" envDefault:"bcrypt"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for login and signup
	RateLimitEnabled   bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	AuthRateLimitRPM   int  `env:"AUTH_RATE_LIMIT_RPM" envDefault:"60"`
	AuthRateLimitBurst int  `env:"AUTH_RATE_LIMIT_BURST" envDefault:"20"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP. Enable only behind a proxy that
	// overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// CORS configuration
	// Comma-separated list of allowed origins. "*" allows any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173,http://localhost:8080,*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// MongoConnectionURI returns MONGO_URI when set, otherwise a URI built
// from DB_HOST and DB_PORT.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return "mongodb://" + net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort))
}

// UsesDefaultSecret reports whether the token secret is empty or the placeholder.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.IsProduction() && c.UsesDefaultSecret() {
		errs = append(errs, errors.New("JWT_SECRET must be set explicitly in production"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}

	if _, ok := jwt.GetSigningMethod(c.JWTAlgorithm).(*jwt.SigningMethodHMAC); !ok {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not a supported HMAC algorithm", c.JWTAlgorithm))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.PasswordHash {
	case "bcrypt", "argon2id":
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASH %q is not supported", c.PasswordHash))
	}

	if c.RateLimitEnabled {
		if c.AuthRateLimitRPM <= 0 {
			errs = append(errs, errors.New("AUTH_RATE_LIMIT_RPM must be positive when rate limiting is enabled"))
		}
		if c.AuthRateLimitBurst <= 0 {
			errs = append(errs, errors.New("AUTH_RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
		}
	}

	switch c.StorageDriver {
	case StorageMongo, StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not supported", c.StorageDriver))
	}

	return errors.Join(errs...)
}

// Warnings returns non-fatal configuration issues worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.UsesDefaultSecret() {
		warnings = append(warnings, "JWT_SECRET is the default placeholder; set a unique secret before deploying")
	}
	for _, origin := range c.GetCORSAllowedOrigins() {
		if origin == "*" {
			warnings = append(warnings, "CORS_ALLOWED_ORIGINS allows any origin")
			break
		}
	}
	if c.StorageDriver == StorageMemory {
		warnings = append(warnings, "memory storage driver loses all data on restart")
	}
	return warnings
}

// Load reads an optional .env file, parses environment variables and
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
