package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 5 * time.Second

// Pinger is anything readiness can ping: the post/user store or Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency names a Pinger in the readiness report. A nil Pinger is
// reported as "not configured" and does not fail readiness.
type Dependency struct {
	Name   string
	Pinger Pinger
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	logger *slog.Logger
	deps   []Dependency
}

// NewHealthHandler creates a HealthHandler probing deps in order.
// Dependency failures are logged in full and reported only as "error".
func NewHealthHandler(logger *slog.Logger, deps ...Dependency) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{logger: logger, deps: deps}
}

// HealthResponse is the health body. It is not wrapped in the API
// envelope so orchestrators can read it directly.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health answers as long as the process serves HTTP.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings every dependency concurrently. Any failure gives 503.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = make(map[string]string, len(h.deps))
	)
	report := func(name, result string) {
		mu.Lock()
		checks[name] = result
		mu.Unlock()
	}

	// Ping errors are collected into checks, so the group never
	// cancels siblings.
	var g errgroup.Group
	for _, dep := range h.deps {
		if dep.Pinger == nil {
			report(dep.Name, "not configured")
			continue
		}
		g.Go(func() error {
			if err := dep.Pinger.Ping(ctx); err != nil {
				h.logger.Warn("readiness check failed",
					slog.String("dependency", dep.Name),
					slog.String("error", err.Error()),
				)
				report(dep.Name, "error")
				return err
			}
			report(dep.Name, "ok")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}
