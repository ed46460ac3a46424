package devstub

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
)

// errorResponse is the canonical error envelope. The portal client reads the
// "message" field, so every error renders as {"message": "<text>"}.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps known
// domain errors onto deterministic status codes, logs anything unexpected,
// and keeps the envelope consistent.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "Email is already registered"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "No account found for this email"
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid or expired OTP"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "Record not found"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
