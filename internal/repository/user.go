package repository

import (
	"context"

	"quicklist/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Emails are expected to be normalized by the caller.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create inserts the user and fills in ID and timestamps.
	// It returns ErrDuplicate when the email is already registered.
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
