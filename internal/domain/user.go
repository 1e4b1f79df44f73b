package domain

import "time"

// User represents a registered owner of to-do items.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Todos        []Todo
}
