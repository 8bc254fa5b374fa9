package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inkpost/inkpost/internal/model"
)

// MemoryStore is an in-process Store used for tests and local demos.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]model.User
	byEmail map[string]string
	posts   map[string]model.Post
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]model.User),
		byEmail: make(map[string]string),
		posts:   make(map[string]model.Post),
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() {}

// CreateUser stores a user, enforcing email uniqueness.
func (s *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return ErrEmailExists
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetUserByID returns a copy of the user.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// GetUserByEmail returns a copy of the user with exactly this email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

// GetUsersByIDs returns copies of the users that exist.
func (s *MemoryStore) GetUsersByIDs(_ context.Context, ids []string) (map[string]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*model.User, len(ids))
	for _, id := range uniqueIDs(ids) {
		if user, ok := s.users[id]; ok {
			out[id] = &user
		}
	}
	return out, nil
}

// UpdateUser applies a profile update and returns the updated user.
func (s *MemoryStore) UpdateUser(_ context.Context, id string, update model.ProfileUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	update.Apply(&user)
	s.users[id] = user
	return &user, nil
}

// CreatePost stores a post.
func (s *MemoryStore) CreatePost(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[post.ID] = *post
	return nil
}

// GetPostByID returns a copy of the post.
func (s *MemoryStore) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

// ListPosts returns all posts, newest first.
func (s *MemoryStore) ListPosts(_ context.Context) ([]*model.Post, error) {
	return s.filterPosts(func(model.Post) bool { return true }), nil
}

// ListPostsByAuthor returns the author's posts, newest first.
func (s *MemoryStore) ListPostsByAuthor(_ context.Context, authorID string) ([]*model.Post, error) {
	return s.filterPosts(func(p model.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *MemoryStore) filterPosts(keep func(model.Post) bool) []*model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if keep(post) {
			p := post
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UpdatePost applies an update and returns the updated post.
func (s *MemoryStore) UpdatePost(_ context.Context, id string, update model.PostUpdate, updatedAt time.Time) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	update.Apply(&post)
	post.UpdatedAt = updatedAt
	s.posts[id] = post
	return &post, nil
}

// DeletePost removes a post.
func (s *MemoryStore) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}
