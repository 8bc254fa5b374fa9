package dto

import (
	"time"

	"github.com/inkpost/inkpost/internal/model"
)

// TimeLayout is the wire format for timestamps, always rendered in UTC
// (e.g. 2024-01-15T10:30:00+00:00).
const TimeLayout = "2006-01-02T15:04:05-07:00"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// UserResponse represents a user in API responses. Optional profile
// fields are null when unset.
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	IsAdmin   bool    `json:"isAdmin"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
	JoinedAt  *string `json:"joined_at"`
}

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Body            string  `json:"body"`
	AuthorID        string  `json:"author_id"`
	AuthorName      string  `json:"author_name"`
	AuthorAvatarURL *string `json:"author_avatar_url"`
	Excerpt         string  `json:"excerpt"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Location:  user.Location,
		Website:   user.Website,
	}
	if !user.JoinedAt.IsZero() {
		joined := FormatTime(user.JoinedAt)
		resp.JoinedAt = &joined
	}
	return resp
}

// ToPostResponse converts an AuthoredPost to PostResponse DTO.
func ToPostResponse(post *model.AuthoredPost) *PostResponse {
	return &PostResponse{
		ID:              post.ID,
		Title:           post.Title,
		Body:            post.Body,
		AuthorID:        post.AuthorID,
		AuthorName:      post.AuthorName(),
		AuthorAvatarURL: post.AuthorAvatarURL(),
		Excerpt:         post.Excerpt,
		CreatedAt:       FormatTime(post.CreatedAt),
		UpdatedAt:       FormatTime(post.UpdatedAt),
	}
}

// ToPostListResponse converts posts to a JSON array that is never null.
func ToPostListResponse(posts []model.AuthoredPost) []*PostResponse {
	out := make([]*PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	return out
}

// ToAuthResponse pairs a token with its account.
func ToAuthResponse(token string, user *model.User) *AuthResponse {
	return &AuthResponse{Token: token, User: ToUserResponse(user)}
}
