package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(4000), cfg.HTTP.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenExpiry)
	assert.True(t, cfg.Auth.IsDefaultSecret())
	assert.Empty(t, cfg.Auth.MasterPassword)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.Equal(t, 10, cfg.GraphQL.MaxDepth)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://catalog@localhost/catalog")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("JWT_SECRET", "not-the-default")
	t.Setenv("AUTH_TOKEN_EXPIRY", "1h")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://catalog@localhost/catalog", cfg.Database.URL)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.False(t, cfg.Auth.IsDefaultSecret())
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
}
