package handler

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/devstub/store"
)

const (
	otpTTL   = 5 * time.Minute
	tokenTTL = 24 * time.Hour
)

// AuthHandler implements the portal's OTP-gated auth endpoints. When devMode
// is set, the generated code is echoed back in the response as devOtp so the
// flow can be exercised without a mail channel.
type AuthHandler struct {
	users     store.UserStore
	otps      store.OTPStore
	jwtSecret string
	devMode   bool
	log       zerolog.Logger
}

func NewAuthHandler(users store.UserStore, otps store.OTPStore, jwtSecret string, devMode bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, otps: otps, jwtSecret: jwtSecret, devMode: devMode, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpIssuedResponse struct {
	Message string `json:"message"`
	DevOTP  string `json:"devOtp,omitempty"`
}

type verifyLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin alumni"`
}

type verifyRegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher admin alumni"`
	OTP      string `json:"otp" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyPasswordResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type resendOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=login register reset"`
}

// Login checks the credential pair and dispatches a login OTP.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return domain.ErrInvalidCredentials
	}

	return h.issueOTP(c, domain.PurposeLogin, req.Email, "OTP sent to your email")
}

// VerifyLogin consumes the code and returns the session record plus token.
func (h *AuthHandler) VerifyLogin(c echo.Context) error {
	var req verifyLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := h.otps.Verify(c.Request().Context(), domain.PurposeLogin, req.Email, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}

	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	token, err := h.signToken(user)
	if err != nil {
		return err
	}
	u := user.User
	return c.JSON(http.StatusOK, sessionResponse{User: &u, Token: token})
}

// Register validates the form and dispatches a registration OTP. The account
// is only created once the code is verified.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.users.FindByEmail(c.Request().Context(), req.Email); err == nil {
		return domain.ErrUserExists
	}

	return h.issueOTP(c, domain.PurposeRegister, req.Email, "OTP sent to your email")
}

// VerifyRegister consumes the code and creates the account. No auto-login.
func (h *AuthHandler) VerifyRegister(c echo.Context) error {
	var req verifyRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := h.otps.Verify(c.Request().Context(), domain.PurposeRegister, req.Email, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	created, err := h.users.Create(c.Request().Context(), store.User{
		User:         domain.User{Name: req.Name, Email: req.Email, Role: req.Role},
		PasswordHash: string(hash),
	})
	if err != nil {
		return err
	}

	h.log.Info().Str("email", created.Email).Str("role", created.Role).Msg("account created")
	u := created.User
	return c.JSON(http.StatusCreated, map[string]any{"user": &u})
}

// RequestPasswordReset dispatches a reset OTP for a known account.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.users.FindByEmail(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return h.issueOTP(c, domain.PurposeReset, req.Email, "OTP sent to your email")
}

// VerifyPasswordReset consumes the code and replaces the password in one
// call, matching the client's deferred-verification reset flow.
func (h *AuthHandler) VerifyPasswordReset(c echo.Context) error {
	var req verifyPasswordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := h.otps.Verify(c.Request().Context(), domain.PurposeReset, req.Email, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.users.UpdatePassword(c.Request().Context(), req.Email, string(hash)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

// ResendOTP issues a fresh code for the given purpose, replacing any pending
// one. Cooldown enforcement is the client's job; the stub only rotates codes.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	purpose := domain.Purpose(req.Purpose)
	if purpose != domain.PurposeRegister {
		if _, err := h.users.FindByEmail(c.Request().Context(), req.Email); err != nil {
			return err
		}
	}
	return h.issueOTP(c, purpose, req.Email, "OTP resent to your email")
}

func (h *AuthHandler) issueOTP(c echo.Context, purpose domain.Purpose, email, message string) error {
	code := generateOTP()
	if err := h.otps.Put(c.Request().Context(), purpose, email, code, otpTTL); err != nil {
		return err
	}
	h.log.Debug().Str("purpose", string(purpose)).Str("email", email).Msg("otp issued")

	resp := otpIssuedResponse{Message: message}
	if h.devMode {
		resp.DevOTP = code
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) signToken(user store.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// generateOTP returns a 6-digit code from crypto/rand, falling back to the
// clock if the reader fails.
func generateOTP() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1_000_000)
	}
	return fmt.Sprintf("%06d", binary.BigEndian.Uint32(b[:])%1_000_000)
}
