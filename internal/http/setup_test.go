package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	auditRepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
)

const testPassword = "correct-horse"

type testEnv struct {
	router  *gin.Engine
	db      *database.Database
	catalog *catalog.Service
	auth    *auth.Service
	audit   *audit.Service
}

func setupTestEnv(t *testing.T, mode config.AuthMode) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(config.Database{
		Path:     filepath.Join(t.TempDir(), "http.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)

	authCfg := config.Auth{
		Mode:             mode,
		JWTSecret:        "test-secret",
		TokenExpiry:      time.Hour,
		BcryptCost:       4,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	authService := auth.NewService(users.NewRepository(db.DB), authCfg, auditService)
	catalogService := catalog.NewService(db, auditService)

	t.Cleanup(func() {
		auditService.Wait()
		authService.Close()
		db.Close()
	})

	router := NewRouter(RouterConfig{
		Catalog:        catalogService,
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(authService, authCfg),
		Audit:          auditService,
		Version:        "test",
	})

	return &testEnv{
		router:  router,
		db:      db,
		catalog: catalogService,
		auth:    authService,
		audit:   auditService,
	}
}

// createUser stores a user and returns a bearer token for it.
func (e *testEnv) createUser(t *testing.T, email string, role entities.UserRole) string {
	t.Helper()
	_, err := e.auth.CreateUser(context.Background(), auth.NewUser{
		Name:     "Test User",
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)

	session, err := e.auth.Login(context.Background(), email, testPassword)
	require.NoError(t, err)
	return session.Token
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(cookie *http.Cookie) requestOption {
	return func(r *http.Request) {
		r.AddCookie(cookie)
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
