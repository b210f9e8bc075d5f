package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/entities"
)

// Gin context keys set by the middleware.
const (
	ContextKeyUser     = "auth_user"
	ContextKeyAuthType = "auth_type" // "bearer", "cookie" or "none"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeCookie AuthType = "cookie"
)

type ctxKey int

const (
	userKey ctxKey = iota
	clientKey
)

// Client identifies the caller's network origin for audit records.
type Client struct {
	IP        string
	UserAgent string
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *entities.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *entities.User {
	user, _ := ctx.Value(userKey).(*entities.User)
	return user
}

func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

func ClientFromContext(ctx context.Context) Client {
	client, _ := ctx.Value(clientKey).(Client)
	return client
}

// GetUser returns the user stored on the gin context by the middleware.
func GetUser(c *gin.Context) *entities.User {
	if v, ok := c.Get(ContextKeyUser); ok {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID, or 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return 0
}

// GetAuthType returns how the current request was authenticated.
func GetAuthType(c *gin.Context) AuthType {
	if v, ok := c.Get(ContextKeyAuthType); ok {
		if t, ok := v.(AuthType); ok {
			return t
		}
	}
	return AuthTypeNone
}
