// Command api serves the Inkpost blogging REST API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/metrics"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("api exited", "error", err)
		os.Exit(1)
	}
}

// run opens every backend, serves until a signal arrives and closes the
// backends again. Returned errors are already scrubbed of credentials.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %s", cfg.StorageDriver,
			sanitizeError(err, cfg.DatabaseURL, cfg.MongoConnectionURI()))
	}

	redisClient, limiter, err := openLimiter(ctx, cfg, logger)
	if err != nil {
		store.Close()
		return fmt.Errorf("connect to Redis at %s: %s", redactURL(cfg.RedisURL), sanitizeError(err, cfg.RedisURL))
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		return errors.Join(fmt.Errorf("token service: %w", err), closeAll(store, redisClient))
	}
	passwords, err := auth.NewPasswords(cfg.PasswordHash, cfg.BcryptCost)
	if err != nil {
		return errors.Join(fmt.Errorf("password hasher: %w", err), closeAll(store, redisClient))
	}

	srv := server.New(server.NewRouter(server.Deps{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Cache:     redisClient,
		Limiter:   limiter,
		Tokens:    tokens,
		Passwords: passwords,
		Metrics:   metrics.NewPrometheus(),
	}), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("store", func(context.Context) error {
		store.Close()
		return nil
	})
	if redisClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return redisClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"rate_limiter", limiterKind(redisClient),
	)
	return srv.Run()
}

// closeAll releases backends when startup fails before the server owns them.
func closeAll(store repository.Store, redisClient *cache.Cache) error {
	store.Close()
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// openLimiter picks the auth rate limiter: a Redis token bucket shared by
// every replica when REDIS_URL is set, otherwise a per-process one.
func openLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*cache.Cache, cache.Limiter, error) {
	if cfg.RedisURL == "" {
		return nil, cache.NewLocalLimiter(cfg.AuthRateLimitRPM, cfg.AuthRateLimitBurst), nil
	}
	c, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to Redis", slog.String("redis_url", redactURL(cfg.RedisURL)))
	return c, cache.NewRedisLimiter(c, cfg.AuthRateLimitRPM, cfg.AuthRateLimitBurst), nil
}

func limiterKind(redisClient *cache.Cache) string {
	if redisClient != nil {
		return "redis"
	}
	return "local"
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StorageDriver {
	case config.StorageMongo:
		store, err := repository.NewMongoStore(ctx, cfg.MongoConnectionURI(), cfg.DBName)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to MongoDB",
			slog.String("uri", redactURL(cfg.MongoConnectionURI())),
			slog.String("database", cfg.DBName),
		)
		return store, nil

	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err := repository.Migrate(cfg.DatabaseURL); err != nil {
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to PostgreSQL", slog.String("database_url", redactURL(cfg.DatabaseURL)))
		return store, nil

	case config.StorageMemory:
		return repository.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

// newLogger builds the process logger. format "json" selects the JSON
// handler; anything else gives logfmt-style text.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "inkpost")
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces connection secrets that drivers echo back in
// error messages.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
