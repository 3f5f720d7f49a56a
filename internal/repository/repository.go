package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"

	"microblogPosts/internal/models"
)

const (
	driverMongo    = "mongo"
	driverPostgres = "postgres"
)

// PostRepository is the post document store. Lookups that match nothing return an error
// wrapping models.ErrPostNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error)
	GetByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, error)
	GetByUserID(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error)
	GetOwned(ctx context.Context, ownerID, postID string) (*models.Post, error)
	UpdateOwned(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest, updatedAt time.Time) (*models.Post, error)
	SoftDeleteOwned(ctx context.Context, ownerID, postID string, deletedAt time.Time) error
}

// UserRepository touches only the post back-references of externally owned users.
type UserRepository interface {
	// AttachPost adds postID to the user's post list. It is idempotent and returns an
	// error wrapping models.ErrUserNotFound when no user matches.
	AttachPost(ctx context.Context, userID, postID string) error
}

type Repository struct {
	Post PostRepository
	User UserRepository
}

func NewMongoRepository(db *mongo.Database) *Repository {
	return &Repository{
		Post: NewMongoPostRepository(db),
		User: NewMongoUserRepository(db),
	}
}

func NewPostgresRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Post: NewPostRepository(db),
		User: NewUserRepository(db),
	}
}
