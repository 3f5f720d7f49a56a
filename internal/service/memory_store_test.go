package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"microblogPosts/internal/models"
)

// memoryStore is a document store double with the same filter semantics as the adapters.
type memoryStore struct {
	mu    sync.Mutex
	posts map[string]models.Post
	order []string
	users map[string][]string
}

func newMemoryStore(userIDs ...string) *memoryStore {
	s := &memoryStore{posts: map[string]models.Post{}, users: map[string][]string{}}
	for _, id := range userIDs {
		s.users[id] = []string{}
	}
	return s
}

func visible(post models.Post, opts models.ReadOptions) bool {
	return !opts.ExcludeDeleted || post.DeletedAt == nil
}

func (s *memoryStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; ok {
		return errors.New("duplicate key")
	}
	s.posts[post.ID] = *post
	s.order = append(s.order, post.ID)
	return nil
}

func (s *memoryStore) GetAll(_ context.Context, opts models.ReadOptions) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := []models.Post{}
	for _, id := range s.order {
		if post := s.posts[id]; visible(post, opts) {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *memoryStore) GetByID(_ context.Context, postID string, opts models.ReadOptions) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || !visible(post, opts) {
		return nil, models.NewPostNotFoundError(postID)
	}
	return &post, nil
}

func (s *memoryStore) GetByUserID(_ context.Context, userID string, opts models.ReadOptions) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := []models.Post{}
	for _, id := range s.order {
		if post := s.posts[id]; post.UserID == userID && visible(post, opts) {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *memoryStore) GetOwned(_ context.Context, ownerID, postID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.UserID != ownerID {
		return nil, models.NewPostNotFoundError(postID)
	}
	return &post, nil
}

func (s *memoryStore) UpdateOwned(_ context.Context, ownerID, postID string, req models.UpdatePostRequest, updatedAt time.Time) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.UserID != ownerID {
		return nil, models.NewPostNotFoundError(postID)
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	post.UpdatedAt = updatedAt
	s.posts[postID] = post
	return &post, nil
}

func (s *memoryStore) SoftDeleteOwned(_ context.Context, ownerID, postID string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.UserID != ownerID {
		return models.NewPostNotFoundError(postID)
	}
	post.DeletedAt = &deletedAt
	post.UpdatedAt = deletedAt
	s.posts[postID] = post
	return nil
}

func (s *memoryStore) AttachPost(_ context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs, ok := s.users[userID]
	if !ok {
		return models.NewUserNotFoundError(userID)
	}
	for _, ref := range refs {
		if ref == postID {
			return nil
		}
	}
	s.users[userID] = append(refs, postID)
	return nil
}

func (s *memoryStore) userPosts(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users[userID]...)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, error) {
	args := m.Called(ctx, postID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetOwned(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	args := m.Called(ctx, ownerID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateOwned(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest, updatedAt time.Time) (*models.Post, error) {
	args := m.Called(ctx, ownerID, postID, req, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) SoftDeleteOwned(ctx context.Context, ownerID, postID string, deletedAt time.Time) error {
	args := m.Called(ctx, ownerID, postID, deletedAt)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) AttachPost(ctx context.Context, userID, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}
