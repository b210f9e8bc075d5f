package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
)

// Error codes shared with the GraphQL boundary.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // per-field validation messages
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeBadUserInput})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Error().Err(err).Str("context", context).Str("path", c.Request.URL.Path).Msg("internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondServiceError maps an error returned by the catalog, auth or audit
// services onto a status code and error body.
func respondServiceError(c *gin.Context, err error, context string) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input", Code: CodeBadUserInput, Details: verrs})
		return
	}

	var lockout *auth.LockoutError
	if errors.As(err, &lockout) {
		c.Header("Retry-After", strconv.Itoa(int(lockout.RetryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: auth.ErrTooManyAttempts.Error(), Code: CodeTooManyRequests})
		return
	}

	status, code, message := http.StatusInternalServerError, "", err.Error()
	switch {
	case errors.Is(err, database.ErrNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, auth.ErrUserExists):
		status, code = http.StatusConflict, CodeConflict
	case errors.Is(err, database.ErrConflict):
		// The driver message names tables and columns.
		status, code, message = http.StatusConflict, CodeConflict, database.ErrConflict.Error()
	case errors.Is(err, database.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "referenced record does not exist", Code: CodeBadUserInput})
		return
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, auth.ErrEmailRequired), errors.Is(err, auth.ErrPasswordRequired):
		status, code = http.StatusBadRequest, CodeBadUserInput
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, auth.ErrForbidden):
		status, code = http.StatusForbidden, CodeForbidden
	default:
		respondInternalError(c, err, context)
		return
	}

	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates a positive integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body or responds with a 400 error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// searchQuery returns the trimmed q parameter or responds with a 400 error.
func searchQuery(c *gin.Context) (string, bool) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondBadRequest(c, "query parameter q is required")
		return "", false
	}
	return q, true
}

// list never serializes a nil slice as null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
