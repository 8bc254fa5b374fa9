// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/inkpost/inkpost/internal/model"

// Request fields are pointers: a key counts as present when it is in the
// body with a non-null value, so an empty string is present.

// SignupRequest represents the request body for POST /api/auth/signup.
type SignupRequest struct {
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required,minbytes=6"`
	Name     *string `json:"name" validate:"required"`
}

// LoginRequest represents the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// CreatePostRequest represents the request body for POST /api/posts.
type CreatePostRequest struct {
	Title *string `json:"title" validate:"required"`
	Body  *string `json:"body" validate:"required"`
}

// UpdatePostRequest represents the request body for PUT /api/posts/{id}.
type UpdatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// UpdateProfileRequest represents the request body for PUT /api/users/{userId}.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
}

// ToProfileUpdate converts the request to a model update.
func (r UpdateProfileRequest) ToProfileUpdate() model.ProfileUpdate {
	return model.ProfileUpdate{
		Name:      r.Name,
		Bio:       r.Bio,
		AvatarURL: r.AvatarURL,
		Location:  r.Location,
		Website:   r.Website,
	}
}

// Value dereferences an optional field, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
