package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"quicklist/internal/domain"
	"quicklist/internal/repository"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 2000
)

// CreateTodoInput is the payload for a new item.
type CreateTodoInput struct {
	Title       string
	Description *string
}

// UpdateTodoInput is a partial update; nil fields are left unchanged.
// An empty description clears it.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// TodoService coordinates to-do operations on behalf of an authenticated owner.
// Items owned by someone else are reported as ErrTodoNotFound.
type TodoService interface {
	Create(ctx context.Context, ownerID int64, in CreateTodoInput) (*domain.Todo, error)
	List(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	Update(ctx context.Context, ownerID, id int64, in UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type todoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func (s *todoService) Create(ctx context.Context, ownerID int64, in CreateTodoInput) (*domain.Todo, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	description, err := normalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}
	if description != nil && *description == "" {
		description = nil
	}

	todo := &domain.Todo{
		Title:       title,
		Description: description,
		IsCompleted: false,
		OwnerID:     ownerID,
	}
	if _, err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) List(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListByOwner(ctx, ownerID)
}

func (s *todoService) Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	todo, err := s.todos.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, ownerID, id int64, in UpdateTodoInput) (*domain.Todo, error) {
	patch := domain.TodoPatch{IsCompleted: in.IsCompleted}
	if in.Title != nil {
		title, err := normalizeTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if in.Description != nil {
		description, err := normalizeDescription(in.Description)
		if err != nil {
			return nil, err
		}
		patch.Description = description
	}

	if patch.Empty() {
		return s.Get(ctx, ownerID, id)
	}

	todo, err := s.todos.UpdateForOwner(ctx, ownerID, id, patch)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, ownerID, id int64) error {
	return mapNotFound(s.todos.DeleteForOwner(ctx, ownerID, id))
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", invalid("title", "must be at most 255 characters")
	}
	return title, nil
}

func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if utf8.RuneCountInString(trimmed) > maxDescriptionLength {
		return nil, invalid("description", "must be at most 2000 characters")
	}
	return &trimmed, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTodoNotFound
	}
	return err
}
