package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkpost/inkpost/internal/metrics"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
)

// PostService handles post business logic.
type PostService struct {
	posts   repository.PostStore
	users   repository.UserStore
	metrics metrics.Recorder
	now     Clock
}

// NewPostService creates a new PostService.
func NewPostService(posts repository.PostStore, users repository.UserStore, recorder metrics.Recorder) *PostService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PostService{
		posts:   posts,
		users:   users,
		metrics: recorder,
		now:     systemClock,
	}
}

// CreatePostInput defines input for creating a post.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Body     string
}

// UpdatePostInput defines input for updating a post. Nil fields are kept.
type UpdatePostInput struct {
	ID       string
	CallerID string
	Title    *string
	Body     *string
}

// List returns every post, newest first, with authors resolved.
func (s *PostService) List(ctx context.Context) ([]model.AuthoredPost, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return s.withAuthors(ctx, posts)
}

// ListByAuthor returns the author's posts, newest first. An unknown author
// yields an empty list.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]model.AuthoredPost, error) {
	posts, err := s.posts.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return s.withAuthors(ctx, posts)
}

// Get returns a single post with its author.
func (s *PostService) Get(ctx context.Context, id string) (*model.AuthoredPost, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, post)
}

// Create stores a new post authored by the caller.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*model.AuthoredPost, error) {
	now := s.now().Truncate(time.Second)
	post := &model.Post{
		ID:        model.NewID(),
		Title:     input.Title,
		Body:      input.Body,
		AuthorID:  input.AuthorID,
		Excerpt:   Excerpt(input.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.metrics.IncPostCreated()
	return s.withAuthor(ctx, post)
}

// Update changes title and/or body. Only the author may update; the excerpt
// is recomputed when the body changes.
func (s *PostService) Update(ctx context.Context, input UpdatePostInput) (*model.AuthoredPost, error) {
	post, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != input.CallerID {
		return nil, ErrForbidden
	}

	update := model.PostUpdate{Title: input.Title, Body: input.Body}
	if update.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	if input.Body != nil {
		excerpt := Excerpt(*input.Body)
		update.Excerpt = &excerpt
	}

	updated, err := s.posts.UpdatePost(ctx, post.ID, update, s.now().Truncate(time.Second))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.metrics.IncPostUpdated()
	return s.withAuthor(ctx, updated)
}

// Delete removes a post. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, id, callerID string) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrForbidden
	}

	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.metrics.IncPostDeleted()
	return nil
}

func (s *PostService) load(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *PostService) withAuthor(ctx context.Context, post *model.Post) (*model.AuthoredPost, error) {
	out := &model.AuthoredPost{Post: *post}
	author, err := s.users.GetUserByID(ctx, post.AuthorID)
	switch {
	case err == nil:
		out.Author = author
	case errors.Is(err, repository.ErrUserNotFound):
	default:
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return out, nil
}

func (s *PostService) withAuthors(ctx context.Context, posts []*model.Post) ([]model.AuthoredPost, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}

	authors, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get authors: %w", err)
	}

	out := make([]model.AuthoredPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, model.AuthoredPost{Post: *p, Author: authors[p.AuthorID]})
	}
	return out, nil
}
