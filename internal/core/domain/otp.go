package domain

// Purpose identifies which challenge-response flow an OTP belongs to. The
// values are the wire strings expected by the resend endpoint.
type Purpose string

const (
	PurposeLogin    Purpose = "login"
	PurposeRegister Purpose = "register"
	PurposeReset    Purpose = "reset"
)

// Step is the client-side position inside an OTP flow.
//
// Login and register complete after the OTP step. Password reset has an extra
// new-password step because the code and the replacement password are sent to
// the server together in a single verify call.
type Step int

const (
	StepCredentials Step = iota
	StepOTP
	StepNewPassword
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepCredentials:
		return "credential-entry"
	case StepOTP:
		return "otp-entry"
	case StepNewPassword:
		return "password-entry"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}
