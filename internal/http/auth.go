package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
)

type AuthController struct {
	service *auth.Service
}

func NewAuthController(service *auth.Service) *AuthController {
	return &AuthController{service: service}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token as well so non-browser clients can
// switch to bearer authentication.
type LoginResponse struct {
	User      *entities.User `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// Login authenticates with email and password and sets the auth cookie.
// POST /api/v1/auth/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := ctl.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	auth.SetAuthCookie(c.Writer, session.Token, ctl.service.TokenExpiry(), ctl.service.SecureCookies())
	c.JSON(http.StatusOK, LoginResponse{
		User:      session.User,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout clears the auth cookie. It succeeds for anonymous callers too.
// POST /api/v1/auth/logout
func (ctl *AuthController) Logout(c *gin.Context) {
	ctl.service.Logout(c.Request.Context())
	auth.ClearAuthCookie(c.Writer, ctl.service.SecureCookies())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the authenticated user.
// GET /api/v1/auth/me
func (ctl *AuthController) Me(c *gin.Context) {
	user := auth.GetUser(c)
	if user == nil {
		respondServiceError(c, auth.ErrUnauthenticated, "me")
		return
	}
	c.JSON(http.StatusOK, user)
}
