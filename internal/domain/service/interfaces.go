// Package service defines the domain service contracts of the authentication core
// and the token validator built on top of them.
package service

import (
	"context"
	"time"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/pkg/constants"
)

//go:generate mockery --name TokenCodec --output mocks --outpkg mocks
// TokenCodec builds and parses signed bearer tokens. It owns the signing key and the
// expiry policy.
type TokenCodec interface {
	// Issue signs a token whose subject is identifier.
	Issue(ctx context.Context, identifier string) (string, error)

	// Parse verifies the signature of token and returns its claims. Errors match
	// errors.ErrMalformedToken, errors.ErrInvalidSignature or errors.ErrExpiredToken.
	Parse(ctx context.Context, token string) (*models.Claims, error)

	// TTL is the lifetime given to issued tokens.
	TTL() time.Duration
}

//go:generate mockery --name PasswordVerifier --output mocks --outpkg mocks
// PasswordVerifier compares plaintext secrets against stored one-way hashes.
type PasswordVerifier interface {
	// Verify reports whether plain matches hash. The comparison is constant time.
	Verify(plain, hash string) bool

	// Hash derives a salted hash for plain.
	Hash(plain string) (string, error)
}

//go:generate mockery --name RateLimitService --output mocks --outpkg mocks
// RateLimitService limits how often a client may attempt to log in.
type RateLimitService interface {
	// Allow consumes one attempt for key in scope. retryAfter is set when the attempt is refused.
	Allow(ctx context.Context, scope constants.RateLimitScope, key string) (allowed bool, retryAfter time.Duration, err error)

	// Reset clears the budget for key in scope.
	Reset(ctx context.Context, scope constants.RateLimitScope, key string) error
}

// Clock supplies the current time. Tests substitute a fixed clock.
type Clock func() time.Time

//go:generate mockery --name AuditSink --output mocks --outpkg mocks
// AuditSink persists or forwards audit events. Failures are reported to the caller, which
// must never fail the audited operation on them.
type AuditSink interface {
	Record(ctx context.Context, event models.AuditEvent) error
}
