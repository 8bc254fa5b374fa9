package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/model"
)

// runStoreSuite exercises the Store contract against any backend. The store
// must be empty.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("users_batch", func(t *testing.T) { testUsersBatch(t, newStore(t)) })
	t.Run("posts", func(t *testing.T) { testPosts(t, newStore(t)) })
	t.Run("posts_ordering", func(t *testing.T) { testPostOrdering(t, newStore(t)) })
}

var suiteBase = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newSuiteUser(email string) *model.User {
	return &model.User{
		ID:           model.NewID(),
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Name:         "Jane Doe",
		JoinedAt:     suiteBase,
	}
}

func newSuitePost(authorID string, createdAt time.Time) *model.Post {
	return &model.Post{
		ID:        model.NewID(),
		Title:     "Hello",
		Body:      "<p>Hello world</p>",
		AuthorID:  authorID,
		Excerpt:   "Hello world...",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func testUsers(t *testing.T, store Store) {
	ctx := context.Background()

	user := newSuiteUser("jane@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.False(t, got.IsAdmin)
	assert.Nil(t, got.Bio)
	assert.True(t, got.JoinedAt.Equal(suiteBase), "joined_at round trip: %s", got.JoinedAt)

	byEmail, err := store.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = store.GetUserByEmail(ctx, "Jane@Example.com")
	assert.True(t, errors.Is(err, ErrUserNotFound), "email match must be exact, got %v", err)

	err = store.CreateUser(ctx, newSuiteUser("jane@example.com"))
	assert.True(t, errors.Is(err, ErrEmailExists), "expected ErrEmailExists, got %v", err)

	_, err = store.GetUserByID(ctx, model.NewID())
	assert.True(t, errors.Is(err, ErrUserNotFound), "expected ErrUserNotFound, got %v", err)

	bio := "Writes about Go"
	name := "Jane Q. Doe"
	updated, err := store.UpdateUser(ctx, user.ID, model.ProfileUpdate{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, bio, *updated.Bio)
	assert.Nil(t, updated.Website)
	assert.Equal(t, user.Email, updated.Email)

	_, err = store.UpdateUser(ctx, model.NewID(), model.ProfileUpdate{Name: &name})
	assert.True(t, errors.Is(err, ErrUserNotFound), "expected ErrUserNotFound, got %v", err)
}

func testUsersBatch(t *testing.T, store Store) {
	ctx := context.Background()

	a := newSuiteUser("a@example.com")
	b := newSuiteUser("b@example.com")
	require.NoError(t, store.CreateUser(ctx, a))
	require.NoError(t, store.CreateUser(ctx, b))

	missing := model.NewID()
	users, err := store.GetUsersByIDs(ctx, []string{a.ID, b.ID, a.ID, missing, ""})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[a.ID].Email)
	assert.Equal(t, "b@example.com", users[b.ID].Email)
	assert.NotContains(t, users, missing)

	empty, err := store.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testPosts(t *testing.T, store Store) {
	ctx := context.Background()

	authorID := model.NewID()
	post := newSuitePost(authorID, suiteBase)
	require.NoError(t, store.CreatePost(ctx, post))

	got, err := store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Body, got.Body)
	assert.Equal(t, authorID, got.AuthorID)
	assert.Equal(t, post.Excerpt, got.Excerpt)

	_, err = store.GetPostByID(ctx, model.NewID())
	assert.True(t, errors.Is(err, ErrPostNotFound), "expected ErrPostNotFound, got %v", err)

	title := "Updated"
	later := suiteBase.Add(time.Hour)
	updated, err := store.UpdatePost(ctx, post.ID, model.PostUpdate{Title: &title}, later)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, post.Body, updated.Body)
	assert.Equal(t, post.Excerpt, updated.Excerpt)
	assert.True(t, updated.UpdatedAt.Equal(later), "updated_at: %s", updated.UpdatedAt)
	assert.True(t, updated.CreatedAt.Equal(suiteBase), "created_at: %s", updated.CreatedAt)

	body := "New body"
	excerpt := "New body..."
	updated, err = store.UpdatePost(ctx, post.ID, model.PostUpdate{Body: &body, Excerpt: &excerpt}, later)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, body, updated.Body)
	assert.Equal(t, excerpt, updated.Excerpt)

	_, err = store.UpdatePost(ctx, model.NewID(), model.PostUpdate{Title: &title}, later)
	assert.True(t, errors.Is(err, ErrPostNotFound), "expected ErrPostNotFound, got %v", err)

	require.NoError(t, store.DeletePost(ctx, post.ID))
	_, err = store.GetPostByID(ctx, post.ID)
	assert.True(t, errors.Is(err, ErrPostNotFound), "expected ErrPostNotFound after delete, got %v", err)

	err = store.DeletePost(ctx, post.ID)
	assert.True(t, errors.Is(err, ErrPostNotFound), "expected ErrPostNotFound on second delete, got %v", err)
}

func testPostOrdering(t *testing.T, store Store) {
	ctx := context.Background()

	alice := model.NewID()
	bob := model.NewID()

	oldest := newSuitePost(alice, suiteBase)
	middle := newSuitePost(bob, suiteBase.Add(time.Minute))
	newest := newSuitePost(alice, suiteBase.Add(2*time.Minute))
	for _, p := range []*model.Post{middle, oldest, newest} {
		require.NoError(t, store.CreatePost(ctx, p))
	}

	all, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, postIDs(all))

	byAlice, err := store.ListPostsByAuthor(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, oldest.ID}, postIDs(byAlice))

	none, err := store.ListPostsByAuthor(ctx, model.NewID())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func postIDs(posts []*model.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
