package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/handler"
	"github.com/inkpost/inkpost/internal/metrics"
	"github.com/inkpost/inkpost/internal/middleware"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/service"
)

// Deps are the collaborators the route table is built from. Cache and
// Limiter are optional.
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     repository.Store
	Cache     *cache.Cache
	Limiter   cache.Limiter
	Tokens    *auth.TokenService
	Passwords service.PasswordHasher
	Metrics   *metrics.Prometheus
}

// NewRouter builds the chi route table once at startup.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var gatherer prometheus.Gatherer
	if d.Metrics != nil {
		recorder = d.Metrics
		gatherer = d.Metrics.Gatherer()
	}

	// Services
	authService := service.NewAuthService(d.Store, d.Passwords, d.Tokens, recorder)
	postService := service.NewPostService(d.Store, d.Store, recorder)
	userService := service.NewUserService(d.Store, recorder)

	// Handlers
	h := handler.New(logger, cfg.IsDevelopment())
	authHandler := handler.NewAuthHandler(h, authService)
	postHandler := handler.NewPostHandler(h, postService)
	userHandler := handler.NewUserHandler(h, userService)
	metricsHandler := handler.NewMetricsHandler(gatherer)

	redisDep := handler.Dependency{Name: "redis"}
	if d.Cache != nil {
		redisDep.Pinger = d.Cache
	}
	healthHandler := handler.NewHealthHandler(logger,
		handler.Dependency{Name: cfg.StorageDriver, Pinger: d.Store},
		redisDep,
	)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:   logger,
		Limiter:  d.Limiter,
		Recorder: recorder,
		Enabled:  cfg.RateLimitEnabled,
		Limit:    cfg.AuthRateLimitRPM,
	}

	r := chi.NewRouter()

	// Registered before any Route call so mounted subrouters inherit them.
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	// Global middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logger(logger, recorder))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Operational endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identity(d.Tokens))

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(rateLimitCfg))
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.With(middleware.RequireAuth).Post("/", postHandler.Create)

			// Per route, so unmatched paths and methods keep 404 and 405.
			postID := middleware.ValidID("id", "Invalid post ID")
			r.With(postID).Get("/{id}", postHandler.Get)
			r.With(postID, middleware.RequireAuth).Put("/{id}", postHandler.Update)
			r.With(postID, middleware.RequireAuth).Delete("/{id}", postHandler.Delete)
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			userID := middleware.ValidID("userId", "Invalid user ID")
			r.With(userID).Get("/", userHandler.Get)
			r.With(userID, middleware.RequireAuth).Put("/", userHandler.Update)
			r.With(userID).Get("/posts", postHandler.ListByAuthor)
		})
	})

	return r
}
