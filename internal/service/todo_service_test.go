package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicklist/internal/domain"
)

func registerUser(t *testing.T, f *fixture, email string) *domain.User {
	t.Helper()

	user, _, err := f.users.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateTodoRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := registerUser(t, f, "alice@example.com")

	todo, err := f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Positive(t, todo.ID)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.IsCompleted)
	assert.Equal(t, alice.ID, todo.OwnerID)
	assert.Nil(t, todo.Description)

	list, err := f.todos.List(ctx, alice.ID)
	require.NoError(t, err)
	count := 0
	for _, item := range list {
		if item.ID == todo.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreateTodoValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := registerUser(t, f, "alice@example.com")

	_, err := f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: "   "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: strings.Repeat("x", 256)})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: "ok", Description: strPtr(strings.Repeat("x", 2001))})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)

	todo, err := f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: " ok ", Description: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "ok", todo.Title)
	assert.Nil(t, todo.Description)
}

func TestTodoIsolationBetweenUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := registerUser(t, f, "alice@example.com")
	bob := registerUser(t, f, "bob@example.com")

	todo, err := f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: "Alice's secret"})
	require.NoError(t, err)

	bobList, err := f.todos.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	_, err = f.todos.Get(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	_, err = f.todos.Update(ctx, bob.ID, todo.ID, UpdateTodoInput{IsCompleted: boolPtr(true)})
	assert.ErrorIs(t, err, ErrTodoNotFound)

	err = f.todos.Delete(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	// a missing id looks exactly the same
	err = f.todos.Delete(ctx, bob.ID, todo.ID+1000)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	still, err := f.todos.Get(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.False(t, still.IsCompleted)
}

func TestUpdateTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := registerUser(t, f, "alice@example.com")

	todo, err := f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: "Buy milk", Description: strPtr("whole")})
	require.NoError(t, err)

	updated, err := f.todos.Update(ctx, alice.ID, todo.ID, UpdateTodoInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Buy milk", updated.Title)

	updated, err = f.todos.Update(ctx, alice.ID, todo.ID, UpdateTodoInput{Title: strPtr(" Buy bread "), Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", updated.Title)
	assert.Nil(t, updated.Description)

	unchanged, err := f.todos.Update(ctx, alice.ID, todo.ID, UpdateTodoInput{})
	require.NoError(t, err)
	assert.Equal(t, updated.Title, unchanged.Title)

	_, err = f.todos.Update(ctx, alice.ID, todo.ID, UpdateTodoInput{Title: strPtr("")})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := registerUser(t, f, "alice@example.com")

	todo, err := f.todos.Create(ctx, alice.ID, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	require.NoError(t, f.todos.Delete(ctx, alice.ID, todo.ID))
	_, err = f.todos.Get(ctx, alice.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}
