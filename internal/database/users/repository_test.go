package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Path:     filepath.Join(t.TempDir(), "users.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func newUser(name, email string) *entities.User {
	return &entities.User{Name: name, Email: email, PasswordHash: "hash"}
}

func TestRepository_Create(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	user := newUser("Test User", "  Test@Example.COM ")
	require.NoError(t, repo.Create(ctx, user))

	assert.NotZero(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, entities.RoleUser, user.Role)
	_, err := uuid.Parse(user.Sub)
	assert.NoError(t, err)
}

func TestRepository_Create_UniqueSubjects(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	user1 := newUser("One", "one@example.com")
	user2 := newUser("Two", "two@example.com")
	require.NoError(t, repo.Create(ctx, user1))
	require.NoError(t, repo.Create(ctx, user2))

	assert.NotEqual(t, user1.Sub, user2.Sub)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("One", "dup@example.com")))
	err := repo.Create(ctx, newUser("Two", "DUP@example.com"))

	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestRepository_Lookups(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	created := newUser("Admin", "admin@example.com")
	created.Role = entities.RoleAdmin
	require.NoError(t, repo.Create(ctx, created))

	t.Run("by id", func(t *testing.T) {
		user, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())

		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "ADMIN@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("by sub", func(t *testing.T) {
		user, err := repo.GetBySub(ctx, created.Sub)
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)

		_, err = repo.GetBySub(ctx, uuid.NewString())
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_HasUsers(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	has, err := repo.HasUsers(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.Create(ctx, newUser("One", "one@example.com")))

	has, err = repo.HasUsers(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}
