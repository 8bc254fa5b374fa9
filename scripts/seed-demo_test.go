package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/repository"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	hasher, err := auth.NewPasswords(auth.SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	res, err := seed(ctx, store, hasher, "password123")
	require.NoError(t, err)
	assert.Equal(t, len(demoUsers), res.UsersCreated)
	assert.Equal(t, len(demoPosts), res.PostsCreated)

	admin, err := store.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, hasher.Verify("password123", admin.PasswordHash))

	posts, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, len(demoPosts))
	assert.Equal(t, "Getting Started with React and TypeScript", posts[0].Title)
	assert.NotContains(t, posts[0].Excerpt, "<p>")

	again, err := seed(ctx, store, hasher, "password123")
	require.NoError(t, err)
	assert.Zero(t, again.UsersCreated)
	assert.Equal(t, len(demoUsers), again.UsersSkipped)
	assert.Zero(t, again.PostsCreated)
}
