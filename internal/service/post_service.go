package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"microblogPosts/internal/models"
	"microblogPosts/internal/observability"
	"microblogPosts/internal/repository"
)

type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	FindAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error)
	FindByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, bool, error)
	FindByUser(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error)
	UpdatePost(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest) (*models.Post, error)
	SoftDeletePost(ctx context.Context, ownerID, postID string) (*models.MessageResponse, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, timeout time.Duration, logger *slog.Logger) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// withTimeout bounds a single store call.
func (p *postService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// timestamp is truncated to the store's millisecond precision so that the returned
// post equals what a later read yields.
func (p *postService) timestamp() time.Time {
	return p.now().UTC().Truncate(time.Millisecond)
}

// CreatePost stores the post and then appends its id to the owner's post list. The two
// writes are not atomic: when the owner is missing the post stays stored and the
// returned error wraps models.ErrUserNotFound.
func (p *postService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	now := p.timestamp()
	post := &models.Post{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		Likes:     0,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    req.UserID,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create new post: %w", err)
	}

	if err := p.userRepo.AttachPost(ctx, req.UserID, post.ID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			observability.OrphanedPosts.Inc()
			p.logger.Warn("post stored without owner back-reference",
				"post_id", post.ID, "user_id", req.UserID)
		}
		return nil, fmt.Errorf("failed to create new post: %w", err)
	}

	return post, nil
}

func (p *postService) FindAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	posts, err := p.postRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the posts: %w", err)
	}
	return posts, nil
}

// FindByID reports absence through found rather than an error.
func (p *postService) FindByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, bool, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	post, err := p.postRepo.GetByID(ctx, postID, opts)
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch the post: %w", err)
	}
	return post, true, nil
}

func (p *postService) FindByUser(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	posts, err := p.postRepo.GetByUserID(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the posts: %w", err)
	}
	return posts, nil
}

// UpdatePost changes the supplied fields of a post owned by ownerID in one filtered write.
func (p *postService) UpdatePost(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	post, err := p.postRepo.UpdateOwned(ctx, ownerID, postID, req, p.timestamp())
	if err != nil {
		return nil, fmt.Errorf("failed to update the post: %w", err)
	}
	return post, nil
}

func (p *postService) SoftDeletePost(ctx context.Context, ownerID, postID string) (*models.MessageResponse, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	if _, err := p.postRepo.GetOwned(ctx, ownerID, postID); err != nil {
		return nil, fmt.Errorf("failed to soft delete post: %w", err)
	}

	if err := p.postRepo.SoftDeleteOwned(ctx, ownerID, postID, p.timestamp()); err != nil {
		return nil, fmt.Errorf("failed to soft delete post: %w", err)
	}

	return &models.MessageResponse{Message: "Post successfully deleted"}, nil
}
