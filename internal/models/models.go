package models

import (
	"time"
)

type Post struct {
	ID        string     `json:"id" bson:"_id" db:"id"`
	Title     string     `json:"title" bson:"title" db:"title"`
	Content   string     `json:"content" bson:"content" db:"content"`
	Likes     int        `json:"likes" bson:"likes" db:"likes"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty" db:"deleted_at"`
	UserID    string     `json:"userId" bson:"userId" db:"user_id"`
}

// IsDeleted reports whether the post has been soft-deleted.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}

// User is owned by the user subsystem; only the post back-references are touched here.
type User struct {
	UserID string   `json:"userId" bson:"_id" db:"id"`
	Posts  []string `json:"posts" bson:"posts" db:"-"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	UserID  string `json:"-" validate:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Content *string `json:"content,omitempty" validate:"omitnil,min=1"`
}

// Empty reports whether the request carries no field to change.
func (r UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Content == nil
}

// ReadOptions selects between the unfiltered read and the read that hides soft-deleted posts.
type ReadOptions struct {
	ExcludeDeleted bool
}

type MessageResponse struct {
	Message string `json:"message"`
}
