package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/service"
)

type demoUser struct {
	Email     string
	Name      string
	IsAdmin   bool
	Bio       string
	AvatarURL string
	Location  string
	Website   string
	JoinedAt  time.Time
}

type demoPost struct {
	AuthorEmail string
	Title       string
	Body        string
	CreatedAt   time.Time
}

var demoUsers = []demoUser{
	{
		Email:     "user@example.com",
		Name:      "John Doe",
		Bio:       "Full-stack developer who enjoys typed frontends and small, fast backends.",
		AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=John",
		Location:  "San Francisco, CA",
		Website:   "https://johndoe.dev",
		JoinedAt:  time.Date(2023, 6, 15, 10, 0, 0, 0, time.UTC),
	},
	{
		Email:     "admin@example.com",
		Name:      "Admin User",
		IsAdmin:   true,
		Bio:       "Platform administrator writing about backend development.",
		AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Admin",
		Location:  "New York, NY",
		Website:   "https://admin-blog.dev",
		JoinedAt:  time.Date(2023, 1, 10, 8, 30, 0, 0, time.UTC),
	},
}

var demoPosts = []demoPost{
	{
		AuthorEmail: "user@example.com",
		Title:       "Getting Started with React and TypeScript",
		Body:        "<p>React and TypeScript together catch whole classes of bugs before they ship.</p><h2>Why TypeScript?</h2><p>Typed props, better editor support and safer refactors.</p>",
		CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	},
	{
		AuthorEmail: "admin@example.com",
		Title:       "Building RESTful APIs",
		Body:        "<p>A small REST API needs consistent envelopes, strict validation and clear status codes.</p><h2>Project layout</h2><p>Keep handlers thin and push rules into services.</p>",
		CreatedAt:   time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
	},
	{
		AuthorEmail: "user@example.com",
		Title:       "JWT Authentication Explained",
		Body:        "<p>A JSON Web Token has a header, a payload and a signature.</p><h2>Practices</h2><p>Use HTTPS, short expiry and validate on every request.</p>",
		CreatedAt:   time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
	},
	{
		AuthorEmail: "admin@example.com",
		Title:       "Modern CSS Techniques",
		Body:        "<p>Grid, container queries and custom properties make layouts simpler than ever.</p>",
		CreatedAt:   time.Date(2024, 1, 12, 16, 45, 0, 0, time.UTC),
	},
}

type seedResult struct {
	UsersCreated int      `json:"users_created"`
	UsersSkipped int      `json:"users_skipped"`
	PostsCreated int      `json:"posts_created"`
	UserIDs      []string `json:"user_ids"`
}

func main() {
	var (
		driver      = flag.String("driver", envOr("STORAGE_DRIVER", config.StorageMongo), "Storage driver: mongo or postgres")
		mongoURI    = flag.String("mongo-uri", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection string")
		dbName      = flag.String("db-name", envOr("DB_NAME", "blog_app"), "MongoDB database name")
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		password    = flag.String("password", "password123", "Password for every demo account")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store repository.Store
	var err error
	switch *driver {
	case config.StorageMongo:
		store, err = repository.NewMongoStore(ctx, *mongoURI, *dbName)
	case config.StoragePostgres:
		if *databaseURL == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL is required for the postgres driver")
			os.Exit(1)
		}
		if err = repository.Migrate(*databaseURL); err == nil {
			store, err = repository.NewPostgresStore(ctx, *databaseURL)
		}
	default:
		err = fmt.Errorf("unsupported driver %q", *driver)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "open storage:", err)
		os.Exit(1)
	}
	defer store.Close()

	hasher, err := auth.NewPasswords(auth.SchemeBcrypt, 10)
	if err != nil {
		fmt.Fprintln(os.Stderr, "password hasher:", err)
		os.Exit(1)
	}

	res, err := seed(ctx, store, hasher, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("users created: %d, skipped: %d, posts created: %d\n", res.UsersCreated, res.UsersSkipped, res.PostsCreated)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// seed inserts the demo accounts and their posts. Accounts that already
// exist are left alone along with their posts, so the script can be rerun.
func seed(ctx context.Context, store repository.Store, hasher service.PasswordHasher, password string) (*seedResult, error) {
	res := &seedResult{}
	fresh := make(map[string]string, len(demoUsers))

	for _, du := range demoUsers {
		existing, err := store.GetUserByEmail(ctx, du.Email)
		if err == nil {
			res.UsersSkipped++
			res.UserIDs = append(res.UserIDs, existing.ID)
			continue
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("look up %s: %w", du.Email, err)
		}

		hash, err := hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user := &model.User{
			ID:           model.NewID(),
			Email:        du.Email,
			PasswordHash: hash,
			Name:         du.Name,
			IsAdmin:      du.IsAdmin,
			Bio:          optional(du.Bio),
			AvatarURL:    optional(du.AvatarURL),
			Location:     optional(du.Location),
			Website:      optional(du.Website),
			JoinedAt:     du.JoinedAt,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create %s: %w", du.Email, err)
		}
		fresh[du.Email] = user.ID
		res.UsersCreated++
		res.UserIDs = append(res.UserIDs, user.ID)
	}

	for _, dp := range demoPosts {
		authorID, ok := fresh[dp.AuthorEmail]
		if !ok {
			continue
		}
		post := &model.Post{
			ID:        model.NewID(),
			Title:     dp.Title,
			Body:      dp.Body,
			AuthorID:  authorID,
			Excerpt:   service.Excerpt(dp.Body),
			CreatedAt: dp.CreatedAt,
			UpdatedAt: dp.CreatedAt,
		}
		if err := store.CreatePost(ctx, post); err != nil {
			return nil, fmt.Errorf("create post %q: %w", dp.Title, err)
		}
		res.PostsCreated++
	}
	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
