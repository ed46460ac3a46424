package httpapi

import (
	"context"
	"net/http"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
	"github.com/campuslink/portal/internal/metrics"
)

// AuthClient implements ports.AuthAPI over the portal's /auth endpoints.
// Each endpoint has its own tagged request/response pair; nothing is sent as
// an untyped map.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpIssuedResponse struct {
	DevOTP  string `json:"devOtp,omitempty"`
	Message string `json:"message,omitempty"`
}

type verifyLoginRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifyLoginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type verifyRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	OTP      string `json:"otp"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type verifyPasswordResetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type resendOTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

func (a *AuthClient) RequestLoginOTP(ctx context.Context, email, password string) (*ports.OTPIssued, error) {
	var resp otpIssuedResponse
	if err := a.c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &ports.OTPIssued{DevOTP: resp.DevOTP}, nil
}

func (a *AuthClient) VerifyLoginOTP(ctx context.Context, email, code string) (*domain.User, string, error) {
	var resp verifyLoginResponse
	if err := a.c.do(ctx, http.MethodPost, "/auth/verify-login", nil, verifyLoginRequest{Email: email, OTP: code}, &resp); err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (a *AuthClient) RequestRegisterOTP(ctx context.Context, in ports.RegisterInput) (*ports.OTPIssued, error) {
	req := registerRequest{Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role}
	var resp otpIssuedResponse
	if err := a.c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &ports.OTPIssued{DevOTP: resp.DevOTP}, nil
}

func (a *AuthClient) VerifyRegisterOTP(ctx context.Context, in ports.RegisterInput, code string) error {
	req := verifyRegisterRequest{Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role, OTP: code}
	return a.c.do(ctx, http.MethodPost, "/auth/verify-register", nil, req, nil)
}

func (a *AuthClient) RequestPasswordReset(ctx context.Context, email string) (*ports.OTPIssued, error) {
	var resp otpIssuedResponse
	if err := a.c.do(ctx, http.MethodPost, "/auth/request-password-reset", nil, passwordResetRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &ports.OTPIssued{DevOTP: resp.DevOTP}, nil
}

func (a *AuthClient) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error {
	req := verifyPasswordResetRequest{Email: email, OTP: code, NewPassword: newPassword}
	return a.c.do(ctx, http.MethodPost, "/auth/verify-password-reset", nil, req, nil)
}

func (a *AuthClient) ResendOTP(ctx context.Context, email string, purpose domain.Purpose) (*ports.OTPIssued, error) {
	metrics.OTPResendsTotal.Inc()
	var resp otpIssuedResponse
	if err := a.c.do(ctx, http.MethodPost, "/auth/resend-otp", nil, resendOTPRequest{Email: email, Purpose: string(purpose)}, &resp); err != nil {
		return nil, err
	}
	return &ports.OTPIssued{DevOTP: resp.DevOTP}, nil
}
