// Package client is a Go client for the Inkpost REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/inkpost/inkpost/internal/handler/dto"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response. Message carries the envelope message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client calls the API over HTTP. It is safe for concurrent use; Signup
// and Login replace the token seen by requests that start afterwards.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a Client for the API rooted at baseURL
// (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Signup registers an account. The returned token is also stored on the
// client.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*dto.AuthResponse, error) {
	req := dto.SignupRequest{Email: &email, Password: &password, Name: &name}
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return &out, nil
}

// Login exchanges credentials for a token. The token is also stored on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	req := dto.LoginRequest{Email: &email, Password: &password}
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return &out, nil
}

// ListPosts returns every post, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]dto.PostResponse, error) {
	var out []dto.PostResponse
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost returns one post.
func (c *Client) GetPost(ctx context.Context, id string) (*dto.PostResponse, error) {
	var out dto.PostResponse
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePost publishes a post as the authenticated user.
func (c *Client) CreatePost(ctx context.Context, title, body string) (*dto.PostResponse, error) {
	req := dto.CreatePostRequest{Title: &title, Body: &body}
	var out dto.PostResponse
	if err := c.do(ctx, http.MethodPost, "/api/posts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost changes the non-nil fields of a post.
func (c *Client) UpdatePost(ctx context.Context, id string, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	var out dto.PostResponse
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil)
}

// GetUser returns a public profile.
func (c *Client) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUserPosts returns the user's posts, newest first.
func (c *Client) ListUserPosts(ctx context.Context, id string) ([]dto.PostResponse, error) {
	var out []dto.PostResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id)+"/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile changes the non-nil profile fields of the user.
func (c *Client) UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
