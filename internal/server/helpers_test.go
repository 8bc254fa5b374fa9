package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/metrics"
	"github.com/inkpost/inkpost/internal/repository"
)

type testAPI struct {
	handler http.Handler
	store   *repository.MemoryStore
	tokens  *auth.TokenService
	metrics *metrics.Prometheus
	cfg     *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		StorageDriver:      config.StorageMemory,
		JWTSecret:          "router-test-secret",
		JWTAlgorithm:       "HS256",
		TokenTTL:           168 * time.Hour,
		BcryptCost:         bcrypt.MinCost,
		PasswordHash:       auth.SchemeBcrypt,
		RateLimitEnabled:   false,
		AuthRateLimitRPM:   60,
		AuthRateLimitBurst: 20,
		CORSAllowedOrigins: "http://localhost:3000,*",
		MaxRequestBodySize: 1 << 20,
	}
}

func newTestAPI(t *testing.T, mutate ...func(*config.Config, *Deps)) *testAPI {
	t.Helper()

	cfg := testConfig()
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	require.NoError(t, err)
	passwords, err := auth.NewPasswords(cfg.PasswordHash, cfg.BcryptCost)
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	recorder := metrics.NewPrometheus()

	deps := Deps{
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:     store,
		Limiter:   cache.NewLocalLimiter(cfg.AuthRateLimitRPM, cfg.AuthRateLimitBurst),
		Tokens:    tokens,
		Passwords: passwords,
		Metrics:   recorder,
	}
	for _, fn := range mutate {
		fn(cfg, &deps)
	}

	return &testAPI{
		handler: NewRouter(deps),
		store:   store,
		tokens:  deps.Tokens,
		metrics: recorder,
		cfg:     cfg,
	}
}

func (a *testAPI) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

type userJSON struct {
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

type postJSON struct {
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

type authJSON struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, rec)
	require.True(t, env.Success, "expected success envelope, got %s", rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// signup creates an account through the API and returns its token and id.
func (a *testAPI) signup(t *testing.T, email, name string) (string, string) {
	t.Helper()
	body := `{"email":"` + email + `","password":"secret123","name":"` + name + `"}`
	rec := a.do(t, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeData[authJSON](t, rec)
	return res.Token, res.User.ID
}

func (a *testAPI) createPost(t *testing.T, token, title, body string) postJSON {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	require.NoError(t, err)
	rec := a.do(t, http.MethodPost, "/api/posts", string(payload), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[postJSON](t, rec)
}
