package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkpost/inkpost/internal/metrics"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
)

// UserService handles profile reads and updates.
type UserService struct {
	users   repository.UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{users: users, metrics: recorder}
}

// UpdateProfileInput defines input for a profile update. Nil fields are kept.
type UpdateProfileInput struct {
	UserID   string
	CallerID string
	Update   model.ProfileUpdate
}

// Get returns a user's public profile.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's own profile. Ownership is checked
// before any storage access.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*model.User, error) {
	if input.UserID != input.CallerID {
		return nil, ErrForbidden
	}
	if input.Update.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.users.UpdateUser(ctx, input.UserID, input.Update)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.metrics.IncProfileUpdated()
	return user, nil
}
