// Package store holds the dev stub's persistence. The stub exists so the
// client SDK can be developed and integration-tested against a live
// implementation of the portal API contract; by default everything lives in
// memory, with optional MongoDB (accounts, resources) and Redis (OTP codes)
// backends for a longer-lived stub.
package store

import (
	"context"
	"time"

	"github.com/campuslink/portal/internal/core/domain"
)

// User is a stub account. PasswordHash never appears in API responses.
type User struct {
	domain.User
	PasswordHash string
}

type UserStore interface {
	// Create fails with domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, u User) (User, error)
	// FindByEmail fails with domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// OTPStore keeps at most one pending code per (purpose, email) pair.
type OTPStore interface {
	Put(ctx context.Context, purpose domain.Purpose, email, code string, ttl time.Duration) error
	// Verify consumes the code on a match so it cannot be replayed.
	Verify(ctx context.Context, purpose domain.Purpose, email, code string) (bool, error)
}

// ResourceStore is schemaless on purpose: the stub faithfully echoes back
// whatever fields the client sent, plus a server-assigned id, which is all
// the consumed contract promises.
type ResourceStore interface {
	List(ctx context.Context, resource string, q domain.ListQuery) ([]map[string]any, int, error)
	// Get fails with domain.ErrRecordNotFound.
	Get(ctx context.Context, resource, id string) (map[string]any, error)
	Insert(ctx context.Context, resource string, doc map[string]any) (map[string]any, error)
	// Update merges patch into the stored document. Fails with
	// domain.ErrRecordNotFound.
	Update(ctx context.Context, resource, id string, patch map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource, id string) error
}
