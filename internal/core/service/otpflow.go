package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
)

// ResendCooldown gates the resend action after a code has been dispatched.
const ResendCooldown = 60 * time.Second

var validate = validator.New()

// Flow drives one OTP challenge-response sequence against the auth API. The
// same controller shape serves login, registration and password reset; the
// purpose decides which endpoints are hit and how many steps there are.
//
// A Flow is single-flight: while a request is outstanding every other
// network-touching method fails fast with ErrRequestInFlight. The resend
// action is additionally gated by a monotonic cooldown deadline rather than a
// decrementing counter, so callers poll ResendAvailableIn on their own tick.
//
// The deadline is not persisted; a process restart re-enables resend
// immediately.
type Flow struct {
	api     ports.AuthAPI
	session ports.SessionWriter
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	purpose  domain.Purpose
	step     domain.Step
	busy     bool
	email    string
	register ports.RegisterInput
	code     string
	resendAt time.Time
	devOTP   string
	message  string
}

// NewLoginFlow returns a two-step login flow. On successful verification the
// returned session writer persists the user and bearer token immediately.
func NewLoginFlow(api ports.AuthAPI, session ports.SessionWriter, log zerolog.Logger) *Flow {
	return &Flow{api: api, session: session, log: log, now: time.Now, purpose: domain.PurposeLogin}
}

// NewRegisterFlow returns a two-step registration flow. Completion does not
// log the new account in.
func NewRegisterFlow(api ports.AuthAPI, log zerolog.Logger) *Flow {
	return &Flow{api: api, log: log, now: time.Now, purpose: domain.PurposeRegister}
}

// NewPasswordResetFlow returns the three-step reset flow: email, code, new
// password. The code is only sent to the server together with the new
// password in the final step.
func NewPasswordResetFlow(api ports.AuthAPI, log zerolog.Logger) *Flow {
	return &Flow{api: api, log: log, now: time.Now, purpose: domain.PurposeReset}
}

func (f *Flow) Purpose() domain.Purpose { return f.purpose }

func (f *Flow) Step() domain.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// DevOTP returns the development-mode code the backend exposed, if any.
func (f *Flow) DevOTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devOTP
}

// Message returns the user-visible outcome of the last failed operation.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// ResendAvailableIn reports how long until the resend action is permitted
// again. Zero means the cooldown has expired.
func (f *Flow) ResendAvailableIn() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.resendAt.Sub(f.now())
	if d < 0 {
		return 0
	}
	return d
}

// SubmitLogin sends the credential pair to the request-OTP endpoint. On
// success the flow moves to otp-entry and the resend cooldown starts.
func (f *Flow) SubmitLogin(ctx context.Context, email, password string) error {
	if err := f.enter(domain.PurposeLogin, domain.StepCredentials); err != nil {
		return err
	}
	issued, err := f.api.RequestLoginOTP(ctx, email, password)
	return f.settle(err, "Login failed. Please check your credentials.", func() {
		f.email = email
		f.advance(domain.StepOTP, issued)
	})
}

// SubmitRegistration validates the form locally and sends it to the
// registration endpoint. A rejected submission (duplicate email, bad role)
// keeps the flow in credential-entry with the server's message.
func (f *Flow) SubmitRegistration(ctx context.Context, in ports.RegisterInput) error {
	if err := validate.Struct(in); err != nil {
		f.setMessage(validationMessage(err))
		return err
	}
	if err := f.enter(domain.PurposeRegister, domain.StepCredentials); err != nil {
		return err
	}
	issued, err := f.api.RequestRegisterOTP(ctx, in)
	return f.settle(err, "Registration failed. Please try again.", func() {
		f.email = in.Email
		f.register = in
		f.advance(domain.StepOTP, issued)
	})
}

// SubmitEmail starts a password reset for the given address.
func (f *Flow) SubmitEmail(ctx context.Context, email string) error {
	if err := f.enter(domain.PurposeReset, domain.StepCredentials); err != nil {
		return err
	}
	issued, err := f.api.RequestPasswordReset(ctx, email)
	return f.settle(err, "Failed to send reset OTP. Please try again.", func() {
		f.email = email
		f.advance(domain.StepOTP, issued)
	})
}

// VerifyOTP submits the code for login and registration flows. For password
// reset it only records the code and moves to password-entry; the server sees
// the code later, bundled with the new password, and a wrong code surfaces at
// that point instead.
func (f *Flow) VerifyOTP(ctx context.Context, code string) (*domain.User, error) {
	switch f.purpose {
	case domain.PurposeLogin:
		if err := f.enter(f.purpose, domain.StepOTP); err != nil {
			return nil, err
		}
		user, token, err := f.api.VerifyLoginOTP(ctx, f.email, code)
		if err == nil && user == nil {
			// A 2xx answer without a user record is a broken backend.
			err = errors.New("verify-login response carried no user record")
		}
		err = f.settle(err, "OTP verification failed.", func() {
			f.step = domain.StepComplete
		})
		if err != nil {
			return nil, err
		}
		if f.session != nil {
			if err := f.session.Login(user, token); err != nil {
				return nil, err
			}
		}
		f.log.Info().Str("role", user.Role).Msg("login verified")
		return user, nil

	case domain.PurposeRegister:
		if err := f.enter(f.purpose, domain.StepOTP); err != nil {
			return nil, err
		}
		err := f.api.VerifyRegisterOTP(ctx, f.register, code)
		return nil, f.settle(err, "Registration failed. Please try again.", func() {
			f.step = domain.StepComplete
		})

	default: // reset: defer verification to SubmitNewPassword
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.step != domain.StepOTP {
			return nil, domain.ErrWrongStep
		}
		f.code = code
		f.step = domain.StepNewPassword
		return nil, nil
	}
}

// SubmitNewPassword finishes a password reset. Mismatched or too-short
// passwords are rejected before any network call.
func (f *Flow) SubmitNewPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if f.purpose != domain.PurposeReset {
		return domain.ErrWrongStep
	}
	if newPassword != confirmPassword {
		f.setMessage("Passwords do not match")
		return domain.ErrPasswordMismatch
	}
	if len(newPassword) < 6 {
		f.setMessage("Password must be at least 6 characters long")
		return domain.ErrPasswordTooShort
	}
	if err := f.enter(f.purpose, domain.StepNewPassword); err != nil {
		return err
	}
	err := f.api.VerifyPasswordReset(ctx, f.email, f.code, newPassword)
	return f.settle(err, "Failed to reset password. Please try again.", func() {
		f.step = domain.StepComplete
	})
}

// ResendOTP requests a fresh code. It is permitted only from otp-entry, only
// when no request is outstanding, and only after the cooldown deadline has
// passed; a successful resend rearms the cooldown.
func (f *Flow) ResendOTP(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return domain.ErrRequestInFlight
	}
	if f.step != domain.StepOTP {
		f.mu.Unlock()
		return domain.ErrWrongStep
	}
	if f.now().Before(f.resendAt) {
		f.mu.Unlock()
		return domain.ErrResendCooldown
	}
	f.busy = true
	f.mu.Unlock()

	issued, err := f.api.ResendOTP(ctx, f.email, f.purpose)
	return f.settle(err, "Unable to resend OTP", func() {
		f.resendAt = f.now().Add(ResendCooldown)
		if issued != nil && issued.DevOTP != "" {
			f.devOTP = issued.DevOTP
		}
	})
}

// enter acquires the single-flight slot after checking the flow is at the
// expected step.
func (f *Flow) enter(purpose domain.Purpose, step domain.Step) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purpose != purpose || f.step != step {
		return domain.ErrWrongStep
	}
	if f.busy {
		return domain.ErrRequestInFlight
	}
	f.busy = true
	return nil
}

// settle releases the single-flight slot and either applies the success
// transition or records the user-visible failure message.
func (f *Flow) settle(err error, fallback string, onSuccess func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.message = userMessage(err, fallback)
		f.log.Debug().Err(err).Str("purpose", string(f.purpose)).Msg("flow request failed")
		return err
	}
	f.message = ""
	onSuccess()
	return nil
}

// advance moves to the given step, arms the resend cooldown and captures a
// development code when the backend exposed one.
func (f *Flow) advance(step domain.Step, issued *ports.OTPIssued) {
	f.step = step
	f.resendAt = f.now().Add(ResendCooldown)
	if issued != nil && issued.DevOTP != "" {
		f.devOTP = issued.DevOTP
	}
}

func (f *Flow) setMessage(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = msg
}

// userMessage prefers the server-supplied message over the generic per-step
// fallback used for transport failures.
func userMessage(err error, fallback string) string {
	var re *domain.RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

// validationMessage flattens validator errors into one readable line.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed validation (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
