package repository

import (
	"context"

	"quicklist/internal/domain"
)

// TodoRepository exposes persistence operations for Todo items.
//
// Every read and write is scoped to an owner: an item that exists but belongs
// to someone else is reported as ErrNotFound, exactly like a missing one.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	GetForOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	UpdateForOwner(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	DeleteForOwner(ctx context.Context, ownerID, id int64) error
}
