package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"microblogPosts/internal/models"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

func newTestService(store *memoryStore) *postService {
	svc := NewPostService(store, store, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil))).(*postService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func stringPtr(s string) *string {
	return &s
}

func TestPostService_CreatePost(t *testing.T) {
	t.Run("existing owner gets back-reference", func(t *testing.T) {
		store := newMemoryStore("u1")
		svc := newTestService(store)

		post, err := svc.CreatePost(context.Background(), models.CreatePostRequest{Title: "A", Content: "B", UserID: "u1"})

		require.NoError(t, err)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "A", post.Title)
		assert.Equal(t, "B", post.Content)
		assert.Equal(t, "u1", post.UserID)
		assert.Equal(t, 0, post.Likes)
		assert.Nil(t, post.DeletedAt)
		assert.Equal(t, fixedNow.Truncate(time.Millisecond), post.CreatedAt)
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
		assert.Contains(t, store.userPosts("u1"), post.ID)
	})

	t.Run("missing owner fails but the post stays stored", func(t *testing.T) {
		store := newMemoryStore("u1")
		svc := newTestService(store)

		post, err := svc.CreatePost(context.Background(), models.CreatePostRequest{Title: "A", Content: "B", UserID: "ghost"})

		assert.Nil(t, post)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		assert.Contains(t, err.Error(), "failed to create new post")
		assert.Contains(t, err.Error(), "User ghost not found")

		orphans, err := store.GetByUserID(context.Background(), "ghost", models.ReadOptions{})
		require.NoError(t, err)
		require.Len(t, orphans, 1)
		assert.Equal(t, "A", orphans[0].Title)
	})

	t.Run("insert failure skips the back-reference", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		userRepo := new(MockUserRepository)
		svc := NewPostService(postRepo, userRepo, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

		postRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
			Return(errors.New("connection refused"))

		post, err := svc.CreatePost(context.Background(), models.CreatePostRequest{Title: "A", Content: "B", UserID: "u1"})

		assert.Nil(t, post)
		assert.EqualError(t, err, "failed to create new post: connection refused")
		userRepo.AssertNotCalled(t, "AttachPost", mock.Anything, mock.Anything, mock.Anything)
		postRepo.AssertExpectations(t)
	})

	t.Run("store calls carry a deadline", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		userRepo := new(MockUserRepository)
		svc := NewPostService(postRepo, userRepo, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

		hasDeadline := mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		})
		postRepo.On("Create", hasDeadline, mock.AnythingOfType("*models.Post")).Return(nil)
		userRepo.On("AttachPost", hasDeadline, "u1", mock.AnythingOfType("string")).Return(nil)

		_, err := svc.CreatePost(context.Background(), models.CreatePostRequest{Title: "A", Content: "B", UserID: "u1"})

		require.NoError(t, err)
		postRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})
}

func TestPostService_FindByID(t *testing.T) {
	store := newMemoryStore("u1")
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, models.CreatePostRequest{Title: "A", Content: "B", UserID: "u1"})
	require.NoError(t, err)

	post, found, err := svc.FindByID(ctx, created.ID, models.ReadOptions{})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created, post)

	post, found, err = svc.FindByID(ctx, "missing", models.ReadOptions{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, post)
}

func TestPostService_FindByID_StoreError(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo, new(MockUserRepository), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	postRepo.On("GetByID", mock.Anything, "p1", models.ReadOptions{}).Return(nil, errors.New("timeout"))

	post, found, err := svc.FindByID(context.Background(), "p1", models.ReadOptions{})

	assert.Nil(t, post)
	assert.False(t, found)
	assert.EqualError(t, err, "failed to fetch the post: timeout")
}

func TestPostService_FindByUser(t *testing.T) {
	store := newMemoryStore("u1", "u2")
	svc := newTestService(store)
	ctx := context.Background()

	for _, userID := range []string{"u1", "u2", "u1"} {
		_, err := svc.CreatePost(ctx, models.CreatePostRequest{Title: "A", Content: "B", UserID: userID})
		require.NoError(t, err)
	}

	posts, err := svc.FindByUser(ctx, "u1", models.ReadOptions{})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = svc.FindByUser(ctx, "nobody", models.ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("non owner gets not found and nothing changes", func(t *testing.T) {
		store := newMemoryStore("u1", "u2")
		svc := newTestService(store)
		created, err := svc.CreatePost(ctx, models.CreatePostRequest{Title: "A", Content: "B", UserID: "u2"})
		require.NoError(t, err)

		post, err := svc.UpdatePost(ctx, "u1", created.ID, models.UpdatePostRequest{Title: stringPtr("X")})

		assert.Nil(t, post)
		assert.ErrorIs(t, err, models.ErrPostNotFound)
		stored, _, _ := svc.FindByID(ctx, created.ID, models.ReadOptions{})
		assert.Equal(t, created, stored)
	})

	t.Run("owner changes only the supplied fields", func(t *testing.T) {
		store := newMemoryStore("u1")
		svc := newTestService(store)
		created, err := svc.CreatePost(ctx, models.CreatePostRequest{Title: "A", Content: "B", UserID: "u1"})
		require.NoError(t, err)

		later := fixedNow.Add(time.Hour)
		svc.now = func() time.Time { return later }

		post, err := svc.UpdatePost(ctx, "u1", created.ID, models.UpdatePostRequest{Content: stringPtr("C")})

		require.NoError(t, err)
		assert.Equal(t, "A", post.Title)
		assert.Equal(t, "C", post.Content)
		assert.Equal(t, "u1", post.UserID)
		assert.Equal(t, created.CreatedAt, post.CreatedAt)
		assert.Equal(t, later.Truncate(time.Millisecond), post.UpdatedAt)
	})

	t.Run("missing post", func(t *testing.T) {
		svc := newTestService(newMemoryStore("u1"))

		_, err := svc.UpdatePost(ctx, "u1", "missing", models.UpdatePostRequest{Title: stringPtr("X")})

		assert.ErrorIs(t, err, models.ErrPostNotFound)
		assert.Contains(t, err.Error(), "failed to update the post")
	})
}

func TestPostService_SoftDeletePost(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore("u1", "u2")
	svc := newTestService(store)

	created, err := svc.CreatePost(ctx, models.CreatePostRequest{Title: "A", Content: "B", UserID: "u2"})
	require.NoError(t, err)

	_, err = svc.SoftDeletePost(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
	stored, _, _ := svc.FindByID(ctx, created.ID, models.ReadOptions{})
	assert.Nil(t, stored.DeletedAt)

	resp, err := svc.SoftDeletePost(ctx, "u2", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Post successfully deleted", resp.Message)

	stored, found, err := svc.FindByID(ctx, created.ID, models.ReadOptions{})
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, stored.DeletedAt)
	assert.Equal(t, "u2", stored.UserID)

	all, err := svc.FindAll(ctx, models.ReadOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	live, err := svc.FindAll(ctx, models.ReadOptions{ExcludeDeleted: true})
	require.NoError(t, err)
	assert.Empty(t, live)

	_, found, err = svc.FindByID(ctx, created.ID, models.ReadOptions{ExcludeDeleted: true})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostService_SoftDeletePost_LostRace(t *testing.T) {
	postRepo := new(MockPostRepository)
	svc := NewPostService(postRepo, new(MockUserRepository), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	postRepo.On("GetOwned", mock.Anything, "u1", "p1").Return(&models.Post{ID: "p1", UserID: "u1"}, nil)
	postRepo.On("SoftDeleteOwned", mock.Anything, "u1", "p1", mock.AnythingOfType("time.Time")).
		Return(models.NewPostNotFoundError("p1"))

	resp, err := svc.SoftDeletePost(context.Background(), "u1", "p1")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
	postRepo.AssertExpectations(t)
}
