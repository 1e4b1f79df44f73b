package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quicklist/internal/domain"
	"quicklist/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT 0,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id);
`

const selectTodoColumns = `id, title, description, is_completed, owner_id, created_at, updated_at`

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO todos (title, description, is_completed, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		todo.Title,
		nullString(todo.Description),
		todo.IsCompleted,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	todo.ID = id
	return id, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+selectTodoColumns+`
FROM todos
WHERE owner_id = ?
ORDER BY id ASC`,
		ownerID,
	)
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
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectTodoColumns+`
FROM todos
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	return scanTodo(row)
}

func (r *TodoRepository) UpdateForOwner(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update todo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE todos
SET title = COALESCE(?, title),
	description = CASE WHEN ? THEN NULLIF(?, '') ELSE description END,
	is_completed = COALESCE(?, is_completed),
	updated_at = ?
WHERE id = ? AND owner_id = ?`,
		nullString(patch.Title),
		patch.Description != nil,
		nullString(patch.Description),
		nullBool(patch.IsCompleted),
		time.Now().UTC(),
		id,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update todo rows affected: %w", err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}

	row := tx.QueryRowContext(ctx, `
SELECT `+selectTodoColumns+`
FROM todos
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	todo, err := scanTodo(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update todo: %w", err)
	}
	return todo, nil
}

func (r *TodoRepository) DeleteForOwner(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTodo(row interface {
	Scan(dest ...any) error
}) (*domain.Todo, error) {
	var (
		todo        domain.Todo
		description sql.NullString
	)
	if err := row.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&todo.IsCompleted,
		&todo.OwnerID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	if description.Valid {
		todo.Description = &description.String
	}
	return &todo, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
