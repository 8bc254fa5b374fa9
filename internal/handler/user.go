package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/handler/dto"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/service"
)

// UserHandler handles profile reads and updates.
type UserHandler struct {
	*Handler
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(base *Handler, svc *service.UserService) *UserHandler {
	return &UserHandler{Handler: base, svc: svc}
}

// Get handles GET /api/users/{userId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", dto.ToUserResponse(user))
}

// Update handles PUT /api/users/{userId}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	// Ownership and existence are reported before body problems.
	var req dto.UpdateProfileRequest
	decodeErr := decodeJSON(r, &req)
	if decodeErr != nil {
		req = dto.UpdateProfileRequest{}
	}

	user, err := h.svc.UpdateProfile(r.Context(), service.UpdateProfileInput{
		UserID:   id,
		CallerID: auth.UserIDFromContext(r.Context()),
		Update:   req.ToProfileUpdate(),
	})
	if err != nil {
		h.handleServiceError(w, r, preferDecodeError(err, decodeErr))
		return
	}

	h.logger.Info("profile_updated", slog.String("user_id", user.ID))

	writeSuccess(w, http.StatusOK, "", dto.ToUserResponse(user))
}
