package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"microblogPosts/internal/models"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) FindAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) FindByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, bool, error) {
	args := m.Called(ctx, postID, opts)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Bool(1), args.Error(2)
}

func (m *MockPostService) FindByUser(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, ownerID, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) SoftDeletePost(ctx context.Context, ownerID, postID string) (*models.MessageResponse, error) {
	args := m.Called(ctx, ownerID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageResponse), args.Error(1)
}
