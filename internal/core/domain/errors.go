package domain

import (
	"errors"
	"fmt"
)

// Client-side flow guards. These never reach the network.
var (
	ErrRequestInFlight  = errors.New("another request is still in flight")
	ErrResendCooldown   = errors.New("resend cooldown has not expired")
	ErrWrongStep        = errors.New("operation not valid in the current step")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrNotAuthenticated = errors.New("not signed in")
)

// RequestError is a request the server rejected (non-2xx). Message carries
// the response body's message field when the server supplied one; flows
// prefer it verbatim over their generic per-step fallbacks.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Server-side conditions, shared with the dev stub which maps them onto HTTP
// status codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrRecordNotFound     = errors.New("record not found")
)
