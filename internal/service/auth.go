package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/metrics"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	VerifyMissing(password string) bool
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// AuthService handles signup and login.
type AuthService struct {
	users     repository.UserStore
	passwords PasswordHasher
	tokens    TokenIssuer
	metrics   metrics.Recorder
	now       Clock
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, passwords PasswordHasher, tokens TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		metrics:   recorder,
		now:       systemClock,
	}
}

// SignupInput defines input for creating an account. Format checks are the
// caller's responsibility.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is a signed token plus the account it identifies.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Signup creates an account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	// Friendly pre-check; the storage unique constraint settles races.
	_, err := s.users.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, NewValidationError("Password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NewID(),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		JoinedAt:     s.now().Truncate(time.Second),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncSignup()
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password both
// return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.passwords.VerifyMissing(input.Password)
			s.metrics.IncLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.passwords.Verify(input.Password, user.PasswordHash) {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(true)
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
