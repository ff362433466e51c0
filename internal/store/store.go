package store

import (
	"context"
	"errors"

	"github.com/serenelabs/serenity/internal/model/mood"
	"github.com/serenelabs/serenity/internal/model/user"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// MoodStore persists mood check-ins. Append-only: the product defines no
// update or delete.
type MoodStore interface {
	// List returns up to limit entries for the user, newest first.
	List(ctx context.Context, userID string, limit int) ([]mood.Entry, error)
	// Insert stores one check-in and returns it with id and timestamp set.
	Insert(ctx context.Context, entry mood.Entry) (mood.Entry, error)
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, displayName string) (user.User, error)
	ByEmail(ctx context.Context, email string) (user.User, error)
	ByID(ctx context.Context, id string) (user.User, error)
}

// Store is the combined persistence surface both backends implement.
type Store interface {
	MoodStore
	UserStore
	Close() error
}
