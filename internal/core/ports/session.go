package ports

import "github.com/campuslink/portal/internal/core/domain"

// SessionWriter is what the login flow needs from the session store: persist
// the authenticated user and bearer token the moment verification succeeds.
type SessionWriter interface {
	Login(user *domain.User, token string) error
}

// TokenSource exposes the current bearer token, if any, so the HTTP transport
// can attach it to outgoing requests.
type TokenSource interface {
	Token() string
}
