package handler

import (
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/internal/handler/dto"
	"github.com/inkpost/inkpost/internal/service"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	*Handler
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Handler, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Handler: base, svc: svc}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	result, err := h.svc.Signup(r.Context(), service.SignupInput{
		Email:    *req.Email,
		Password: *req.Password,
		Name:     *req.Name,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up", slog.String("user_id", result.User.ID))

	writeSuccess(w, http.StatusCreated, "", dto.ToAuthResponse(result.Token, result.User))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in", slog.String("user_id", result.User.ID))

	writeSuccess(w, http.StatusOK, "", dto.ToAuthResponse(result.Token, result.User))
}
