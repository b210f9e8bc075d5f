package graphql

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
)

// Values of extensions.code.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is returned by resolvers; graphql-go copies Extensions into the
// response.
type Error struct {
	Message string
	Code    string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Fields) > 0 {
		ext["fields"] = e.Fields
	}
	return ext
}

func badInput(message string) *Error {
	return &Error{Message: message, Code: CodeBadUserInput}
}

// toError maps service errors onto coded GraphQL errors. Unexpected
// errors are logged and replaced by a generic message.
func toError(log zerolog.Logger, err error) error {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			fields[field] = ferr.Error()
		}
		return &Error{Message: "invalid input", Code: CodeBadUserInput, Fields: fields}
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		return &Error{Message: err.Error(), Code: CodeNotFound}
	case errors.Is(err, database.ErrConflict):
		return &Error{Message: database.ErrConflict.Error(), Code: CodeConflict}
	case errors.Is(err, auth.ErrUserExists):
		return &Error{Message: err.Error(), Code: CodeConflict}
	case errors.Is(err, database.ErrInvalidReference):
		return badInput("referenced record does not exist")
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, auth.ErrEmailRequired), errors.Is(err, auth.ErrPasswordRequired):
		return badInput(err.Error())
	case errors.Is(err, auth.ErrTooManyAttempts):
		return &Error{Message: auth.ErrTooManyAttempts.Error(), Code: CodeTooManyRequests}
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrForbidden):
		return &Error{Message: err.Error(), Code: CodeForbidden}
	case errors.Is(err, auth.ErrUnauthenticated):
		return &Error{Message: err.Error(), Code: CodeUnauthenticated}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Message: "request cancelled", Code: CodeInternal}
	}

	log.Error().Err(err).Msg("resolver failed")
	return &Error{Message: "internal server error", Code: CodeInternal}
}
