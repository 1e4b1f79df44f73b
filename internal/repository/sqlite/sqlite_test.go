package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicklist/internal/domain"
	"quicklist/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "quicklist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewTodoRepository(db).Init(ctx))
	return db
}

func createUser(t *testing.T, users repository.UserRepository, email string) *domain.User {
	t.Helper()

	user := &domain.User{Email: email, PasswordHash: "hash", IsActive: true}
	_, err := users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUserRepositoryCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, users, "alice@example.com")
	assert.Positive(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.True(t, byEmail.IsActive)

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	first := createUser(t, users, "alice@example.com")

	_, err := users.Create(context.Background(), &domain.User{Email: "alice@example.com", PasswordHash: "other"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestTodoRepositoryOwnership(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	todos := NewTodoRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	item := &domain.Todo{Title: "Buy milk", OwnerID: alice.ID}
	id, err := todos.Create(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, id, item.ID)

	list, err := todos.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = todos.GetForOwner(ctx, bob.ID, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = todos.UpdateForOwner(ctx, bob.ID, id, domain.TodoPatch{IsCompleted: boolPtr(true)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = todos.DeleteForOwner(ctx, bob.ID, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := todos.GetForOwner(ctx, alice.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Nil(t, got.Description)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, alice.ID, got.OwnerID)
}

func TestTodoRepositoryUpdate(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	todos := NewTodoRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	item := &domain.Todo{Title: "Buy milk", Description: strPtr("2 litres"), OwnerID: alice.ID}
	_, err := todos.Create(ctx, item)
	require.NoError(t, err)

	updated, err := todos.UpdateForOwner(ctx, alice.ID, item.ID, domain.TodoPatch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "2 litres", *updated.Description)

	updated, err = todos.UpdateForOwner(ctx, alice.ID, item.ID, domain.TodoPatch{
		Title:       strPtr("Buy oat milk"),
		Description: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Nil(t, updated.Description)
	assert.True(t, updated.IsCompleted)
}

func TestTodoRepositoryListAndDelete(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	todos := NewTodoRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	for _, title := range []string{"one", "two", "three"} {
		_, err := todos.Create(ctx, &domain.Todo{Title: title, OwnerID: alice.ID})
		require.NoError(t, err)
	}

	list, err := todos.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "one", list[0].Title)
	assert.Equal(t, "three", list[2].Title)

	require.NoError(t, todos.DeleteForOwner(ctx, alice.ID, list[1].ID))
	assert.ErrorIs(t, todos.DeleteForOwner(ctx, alice.ID, list[1].ID), repository.ErrNotFound)

	list, err = todos.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTodoRepositoryRequiresExistingOwner(t *testing.T) {
	db := openTestDB(t)
	todos := NewTodoRepository(db)

	_, err := todos.Create(context.Background(), &domain.Todo{Title: "orphan", OwnerID: 999})
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	createUser(t, users, "alice@example.com")

	dest := filepath.Join(t.TempDir(), "snap", "copy.db")
	require.NoError(t, Snapshot(context.Background(), db, dest))

	copyDB, err := Open(dest)
	require.NoError(t, err)
	defer copyDB.Close()

	user, err := NewUserRepository(copyDB).GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}
