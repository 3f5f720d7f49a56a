package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"microblogPosts/internal/models"
	"microblogPosts/internal/observability"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) AttachPost(ctx context.Context, userID, postID string) error {
	defer observability.ObserveStore("users.attach_post", driverPostgres, time.Now())

	query := `
		UPDATE users
		SET posts = CASE WHEN $1 = ANY(posts) THEN posts ELSE array_append(posts, $1) END
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("attach post %s to user %s: %w", postID, userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated user rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.NewUserNotFoundError(userID)
	}

	return nil
}
