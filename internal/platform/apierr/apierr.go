// Package apierr maps service and store errors onto HTTP responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/hms/internal/platform/store"
)

// ErrValidation marks input rejected by a domain service.
var ErrValidation = errors.New("validation failed")

// Invalid returns a validation error with a user-facing message.
func Invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

// StatusCode picks the HTTP status for err.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, store.ErrInvalidIDFormat):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrCorrupt):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTP converts err into an echo.HTTPError. Internal failures get a generic
// message so storage paths never leak to clients.
func HTTP(err error) *echo.HTTPError {
	code := StatusCode(err)
	msg := err.Error()
	switch code {
	case http.StatusInternalServerError:
		msg = "internal error"
	case http.StatusServiceUnavailable:
		msg = "collection unreadable"
	case http.StatusConflict:
		msg = "collection changed concurrently, retry the request"
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}
