package ports

import (
	"context"

	"github.com/campuslink/portal/internal/core/domain"
)

// RegisterInput is the registration form submitted before the OTP step and
// resubmitted, together with the code, to the verify endpoint.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin alumni"`
}

// OTPIssued is the server's acknowledgement that a code was dispatched.
// DevOTP is only populated by development backends for local testing.
type OTPIssued struct {
	DevOTP string
}

// AuthAPI is the consumed authentication surface of the external portal
// backend. Every call is a single request/response round trip; errors carry
// the server's message when one was provided.
type AuthAPI interface {
	RequestLoginOTP(ctx context.Context, email, password string) (*OTPIssued, error)
	VerifyLoginOTP(ctx context.Context, email, code string) (*domain.User, string, error)
	RequestRegisterOTP(ctx context.Context, in RegisterInput) (*OTPIssued, error)
	VerifyRegisterOTP(ctx context.Context, in RegisterInput, code string) error
	RequestPasswordReset(ctx context.Context, email string) (*OTPIssued, error)
	VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error
	ResendOTP(ctx context.Context, email string, purpose domain.Purpose) (*OTPIssued, error)
}
