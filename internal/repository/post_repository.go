package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"microblogPosts/internal/models"
	"microblogPosts/internal/observability"
)

const postColumns = `id, title, content, likes, created_at, updated_at, deleted_at, user_id`

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func withReadOptions(query string, hasWhere bool, opts models.ReadOptions) string {
	if opts.ExcludeDeleted {
		if hasWhere {
			query += ` AND deleted_at IS NULL`
		} else {
			query += ` WHERE deleted_at IS NULL`
		}
	}
	return query
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	defer observability.ObserveStore("posts.create", driverPostgres, time.Now())

	query := `
		INSERT INTO posts (id, title, content, likes, created_at, updated_at, deleted_at, user_id)
		VALUES (:id, :title, :content, :likes, :created_at, :updated_at, :deleted_at, :user_id)
	`

	if _, err := r.DB.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error) {
	defer observability.ObserveStore("posts.find_all", driverPostgres, time.Now())

	query := withReadOptions(`SELECT `+postColumns+` FROM posts`, false, opts) + ` ORDER BY created_at`

	posts := []models.Post{}
	if err := r.DB.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, error) {
	defer observability.ObserveStore("posts.find_by_id", driverPostgres, time.Now())

	query := withReadOptions(`SELECT `+postColumns+` FROM posts WHERE id = $1`, true, opts)

	var post models.Post
	if err := r.DB.GetContext(ctx, &post, query, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewPostNotFoundError(postID)
		}
		return nil, fmt.Errorf("select post %s: %w", postID, err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetByUserID(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error) {
	defer observability.ObserveStore("posts.find_by_user", driverPostgres, time.Now())

	query := withReadOptions(`SELECT `+postColumns+` FROM posts WHERE user_id = $1`, true, opts) + ` ORDER BY created_at`

	posts := []models.Post{}
	if err := r.DB.SelectContext(ctx, &posts, query, userID); err != nil {
		return nil, fmt.Errorf("select posts of user %s: %w", userID, err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetOwned(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	defer observability.ObserveStore("posts.find_owned", driverPostgres, time.Now())

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND user_id = $2`

	var post models.Post
	if err := r.DB.GetContext(ctx, &post, query, postID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewPostNotFoundError(postID)
		}
		return nil, fmt.Errorf("select post %s: %w", postID, err)
	}

	return &post, nil
}

// UpdateOwned changes only the supplied fields; a nil field keeps its stored value.
func (r *PostRepositoryImpl) UpdateOwned(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest, updatedAt time.Time) (*models.Post, error) {
	defer observability.ObserveStore("posts.update_owned", driverPostgres, time.Now())

	query := `
		UPDATE posts SET
			title = COALESCE($1, title),
			content = COALESCE($2, content),
			updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + postColumns

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, req.Title, req.Content, updatedAt, postID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewPostNotFoundError(postID)
		}
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) SoftDeleteOwned(ctx context.Context, ownerID, postID string, deletedAt time.Time) error {
	defer observability.ObserveStore("posts.soft_delete_owned", driverPostgres, time.Now())

	query := `UPDATE posts SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.DB.ExecContext(ctx, query, deletedAt, postID, ownerID)
	if err != nil {
		return fmt.Errorf("soft delete post %s: %w", postID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check soft deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewPostNotFoundError(postID)
	}

	return nil
}
