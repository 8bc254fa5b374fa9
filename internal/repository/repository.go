// Package repository provides the storage layer for users and posts.
// MongoDB is the default backend; PostgreSQL and an in-memory store
// implement the same Store interface.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/inkpost/inkpost/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")
	ErrEmailExists  = errors.New("email already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail matches the email exactly, case included.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUsersByIDs returns the users that exist, keyed by ID. Missing IDs
	// are simply absent from the map.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	UpdateUser(ctx context.Context, id string, update model.ProfileUpdate) (*model.User, error)
}

// PostStore persists posts. List methods return newest first.
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)
	UpdatePost(ctx context.Context, id string, update model.PostUpdate, updatedAt time.Time) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// Store is the full storage backend owned by the process entry point.
type Store interface {
	UserStore
	PostStore
	Ping(ctx context.Context) error
	Close()
}

// uniqueIDs drops duplicates and empty strings while keeping order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
