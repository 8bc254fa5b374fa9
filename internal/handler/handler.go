// Package handler provides HTTP request handlers.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/middleware"
	"github.com/inkpost/inkpost/internal/service"
)

// Handler carries what every resource handler needs to answer requests:
// a logger and the policy for exposing internal error detail.
type Handler struct {
	logger       *slog.Logger
	exposeDetail bool
}

// New creates a new Handler. exposeDetail adds the underlying error to 500
// messages and is only meant for development.
func New(logger *slog.Logger, exposeDetail bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, exposeDetail: exposeDetail}
}

// NotFound handles unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	message := "API endpoint not found"
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		message = "Endpoint not found"
	}
	writeError(w, http.StatusNotFound, message)
}

// MethodNotAllowed handles a matched path with an unsupported method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// handleServiceError maps service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "No fields to update")
	default:
		h.logger.Error("internal_error",
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		message := "Internal server error"
		if h.exposeDetail {
			message = "Server error: " + err.Error()
		}
		writeError(w, http.StatusInternalServerError, message)
	}
}
