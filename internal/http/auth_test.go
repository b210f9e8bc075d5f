package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthController_LoginMeLogout(t *testing.T) {
	env := setupTestEnv(t, config.AuthModeNone)
	env.createUser(t, "reader@example.com", entities.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "  Reader@Example.com ",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[LoginResponse](t, w)
	require.NotNil(t, resp.User)
	assert.Equal(t, "reader@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "password")

	cookie := findCookie(w.Result().Cookies(), config.AuthCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, resp.Token, cookie.Value)

	t.Run("me with cookie", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, withCookie(&http.Cookie{Name: config.AuthCookieName, Value: cookie.Value}))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "reader@example.com", decode[entities.User](t, w).Email)
	})

	t.Run("me with bearer", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, withBearer(resp.Token))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("me anonymous", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, CodeUnauthenticated, decode[ErrorResponse](t, w).Code)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, withBearer(resp.Token))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())

		cleared := findCookie(w.Result().Cookies(), config.AuthCookieName)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	})
}

func TestAuthController_LoginFailures(t *testing.T) {
	env := setupTestEnv(t, config.AuthModeNone)
	env.createUser(t, "reader@example.com", entities.RoleUser)

	t.Run("missing email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"password": testPassword})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		w1 := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "reader@example.com", "password": "nope-nope"})
		w2 := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "ghost@example.com", "password": "nope-nope"})

		assert.Equal(t, http.StatusUnauthorized, w1.Code)
		assert.Equal(t, http.StatusUnauthorized, w2.Code)
		assert.Equal(t, w1.Body.String(), w2.Body.String())
		assert.Nil(t, findCookie(w1.Result().Cookies(), config.AuthCookieName))
	})

	t.Run("lockout after repeated failures", func(t *testing.T) {
		body := map[string]any{"email": "victim@example.com", "password": "wrong-pass"}
		for i := 0; i < 3; i++ {
			w := env.do(t, http.MethodPost, "/api/v1/auth/login", body)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		}

		w := env.do(t, http.MethodPost, "/api/v1/auth/login", body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})
}

func TestRouter_LocalModeProtectsWrites(t *testing.T) {
	env := setupTestEnv(t, config.AuthModeLocal)
	token := env.createUser(t, "editor@example.com", entities.RoleUser)
	author := map[string]any{"firstName": "Ursula", "lastName": "Le Guin"}

	w := env.do(t, http.MethodPost, "/api/v1/authors", author)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/authors", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/authors", author, withBearer(token))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/authors", author, withBearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
