package models

import (
	"errors"
	"fmt"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("caller identity is missing")
	ErrValidation      = errors.New("validation failed")
)

// NotFoundError names the missing entity while still matching its sentinel via errors.Is.
type NotFoundError struct {
	Resource string
	ID       string
	Kind     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Kind
}

func NewPostNotFoundError(postID string) error {
	return &NotFoundError{Resource: "Post", ID: postID, Kind: ErrPostNotFound}
}

func NewUserNotFoundError(userID string) error {
	return &NotFoundError{Resource: "User", ID: userID, Kind: ErrUserNotFound}
}
