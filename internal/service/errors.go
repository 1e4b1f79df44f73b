package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown email and wrong password both map to it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for any bearer token that does not resolve to an active user.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTodoNotFound is returned for items that do not exist or belong to another user.
	ErrTodoNotFound = errors.New("todo not found")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
