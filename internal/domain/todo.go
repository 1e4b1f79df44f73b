package domain

import "time"

// Todo is a single item on a user's list.
type Todo struct {
	ID          int64
	Title       string
	Description *string
	IsCompleted bool
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch carries the fields of a partial update; nil means unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil
}
