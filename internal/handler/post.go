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

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	*Handler
	svc *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(base *Handler, svc *service.PostService) *PostHandler {
	return &PostHandler{Handler: base, svc: svc}
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", dto.ToPostListResponse(posts))
}

// ListByAuthor handles GET /api/users/{userId}/posts. Unknown users simply
// have no posts.
func (h *PostHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := model.ParseID(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	posts, err := h.svc.ListByAuthor(r.Context(), authorID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", dto.ToPostListResponse(posts))
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", dto.ToPostResponse(post))
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	post, err := h.svc.Create(r.Context(), service.CreatePostInput{
		AuthorID: auth.UserIDFromContext(r.Context()),
		Title:    *req.Title,
		Body:     *req.Body,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
	)

	writeSuccess(w, http.StatusCreated, "", dto.ToPostResponse(post))
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	// Ownership and existence are reported before body problems.
	var req dto.UpdatePostRequest
	decodeErr := decodeJSON(r, &req)
	if decodeErr != nil {
		req = dto.UpdatePostRequest{}
	}

	post, err := h.svc.Update(r.Context(), service.UpdatePostInput{
		ID:       id,
		CallerID: auth.UserIDFromContext(r.Context()),
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		h.handleServiceError(w, r, preferDecodeError(err, decodeErr))
		return
	}

	h.logger.Info("post_updated", slog.String("post_id", post.ID))

	writeSuccess(w, http.StatusOK, "", dto.ToPostResponse(post))
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.svc.Delete(r.Context(), id, auth.UserIDFromContext(r.Context())); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("post_deleted", slog.String("post_id", id))

	writeSuccess(w, http.StatusOK, "Post deleted successfully", []any{})
}
