package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("DATABASE_LOG_LEVEL", "silent")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	return dbPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func openUsers(t *testing.T, path string) *users.Repository {
	t.Helper()
	db, err := database.NewDatabase(config.Database{Path: path, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return users.NewRepository(db.DB)
}

func TestMigrate(t *testing.T) {
	dbPath := setupEnv(t)

	out, err := runCommand(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	has, err := openUsers(t, dbPath).HasUsers(context.Background())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCreateUser(t *testing.T) {
	t.Run("creates an admin", func(t *testing.T) {
		dbPath := setupEnv(t)

		out, err := runCommand(t, "create-user",
			"--name", "Ada", "--email", "Ada@Example.com", "--password", "secret1", "--role", "admin")
		require.NoError(t, err)
		assert.Contains(t, out, "ada@example.com")

		user, err := openUsers(t, dbPath).GetByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, entities.RoleAdmin, user.Role)
		assert.NoError(t, auth.CheckPassword("secret1", user.PasswordHash))
	})

	t.Run("defaults to the user role", func(t *testing.T) {
		dbPath := setupEnv(t)

		_, err := runCommand(t, "create-user", "--name", "Bob", "--email", "bob@example.com", "--password", "secret1")
		require.NoError(t, err)

		user, err := openUsers(t, dbPath).GetByEmail(context.Background(), "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, entities.RoleUser, user.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		setupEnv(t)
		args := []string{"create-user", "--name", "Eve", "--email", "eve@example.com", "--password", "secret1"}

		_, err := runCommand(t, args...)
		require.NoError(t, err)

		_, err = runCommand(t, args...)
		require.Error(t, err)
		assert.True(t, errors.Is(err, auth.ErrUserExists))
	})

	t.Run("rejects a short password", func(t *testing.T) {
		dbPath := setupEnv(t)

		_, err := runCommand(t, "create-user", "--name", "Sam", "--email", "sam@example.com", "--password", "12345")
		require.Error(t, err)

		has, err := openUsers(t, dbPath).HasUsers(context.Background())
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		setupEnv(t)

		_, err := runCommand(t, "create-user", "--name", "Sam", "--email", "sam@example.com", "--password", "secret1", "--role", "root")
		assert.Error(t, err)
	})

	t.Run("email is required", func(t *testing.T) {
		setupEnv(t)

		_, err := runCommand(t, "create-user", "--password", "secret1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"email"`)
	})
}

func TestVersionFlag(t *testing.T) {
	setupEnv(t)

	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}
