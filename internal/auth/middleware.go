package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

// Middleware resolves the caller's identity for every request.
type Middleware struct {
	service *Service
	config  config.Auth
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, cfg config.Auth) *Middleware {
	return &Middleware{
		service: service,
		config:  cfg,
	}
}

// Handler returns a Gin middleware that attaches the user (if any) and the
// client origin to both the gin context and the request context. It never
// rejects a request; see RequireAuth and RequireRole for that.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithClient(c.Request.Context(), Client{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		user, authType := m.authenticate(c)
		if user != nil {
			c.Set(ContextKeyUser, user)
			ctx = WithUser(ctx, user)
		}
		c.Set(ContextKeyAuthType, authType)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// authenticate reads a Bearer token first and falls back to the auth
// cookie only when no Bearer header was sent. Invalid tokens resolve to
// an anonymous caller.
func (m *Middleware) authenticate(c *gin.Context) (*entities.User, AuthType) {
	if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
		user, err := m.service.UserFromToken(c.Request.Context(), token)
		if err != nil {
			return nil, AuthTypeNone
		}
		return user, AuthTypeBearer
	}

	if token, err := c.Cookie(config.AuthCookieName); err == nil && token != "" {
		user, err := m.service.UserFromToken(c.Request.Context(), token)
		if err != nil {
			return nil, AuthTypeNone
		}
		return user, AuthTypeCookie
	}

	return nil, AuthTypeNone
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireAuth rejects anonymous callers when AUTH_MODE=local.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Mode == config.AuthModeLocal && GetUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrUnauthenticated.Error(),
				"code":  "UNAUTHENTICATED",
			})
			return
		}
		c.Next()
	}
}

// RequireRole rejects callers without one of the roles, in every auth mode.
func (m *Middleware) RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrUnauthenticated.Error(),
				"code":  "UNAUTHENTICATED",
			})
			return
		}
		if !roleSet[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": ErrForbidden.Error(),
				"code":  "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}
