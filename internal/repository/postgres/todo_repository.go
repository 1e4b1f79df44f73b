package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quicklist/internal/domain"
	"quicklist/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)
`

const createTodosOwnerIndex = `CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id)`

const selectTodoColumns = `id, title, description, is_completed, owner_id, created_at, updated_at`

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) repository.TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	if _, err := r.pool.Exec(ctx, createTodosOwnerIndex); err != nil {
		return fmt.Errorf("create todos owner index: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	const insertTodoQuery = `
INSERT INTO todos (title, description, is_completed, owner_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	err := r.pool.QueryRow(
		ctx,
		insertTodoQuery,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Scan(&todo.ID)
	if err != nil {
		return 0, fmt.Errorf("insert todo: %w", err)
	}
	return todo.ID, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	const selectTodosByOwnerQuery = `
SELECT ` + selectTodoColumns + `
FROM todos
WHERE owner_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, selectTodosByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) GetForOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	const selectTodoQuery = `
SELECT ` + selectTodoColumns + `
FROM todos
WHERE id = $1 AND owner_id = $2
`
	return scanTodo(r.pool.QueryRow(ctx, selectTodoQuery, id, ownerID))
}

func (r *TodoRepository) UpdateForOwner(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	const updateTodoQuery = `
UPDATE todos
SET title = COALESCE($1, title),
    description = CASE WHEN $2 THEN NULLIF($3, '') ELSE description END,
    is_completed = COALESCE($4, is_completed),
    updated_at = $5
WHERE id = $6 AND owner_id = $7
RETURNING ` + selectTodoColumns

	return scanTodo(r.pool.QueryRow(
		ctx,
		updateTodoQuery,
		patch.Title,
		patch.Description != nil,
		patch.Description,
		patch.IsCompleted,
		time.Now().UTC(),
		id,
		ownerID,
	))
}

func (r *TodoRepository) DeleteForOwner(ctx context.Context, ownerID, id int64) error {
	const deleteTodoQuery = `DELETE FROM todos WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, deleteTodoQuery, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var todo domain.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.IsCompleted,
		&todo.OwnerID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return &todo, nil
}
