package models

import (
	"context"
	"time"

	"github.com/turtacn/adminauth/pkg/constants"
)

// AuthenticatedIdentity is the request-scoped result of a successful token authentication.
// It is created once per request, never mutated, and travels only inside the request context.
type AuthenticatedIdentity struct {
	Principal   Principal
	Authorities []string
	ExpiresAt   time.Time
}

// NewAuthenticatedIdentity snapshots principal and its authorities.
func NewAuthenticatedIdentity(principal Principal, expiresAt time.Time) *AuthenticatedIdentity {
	authorities := principal.Authorities()
	return &AuthenticatedIdentity{
		Principal:   principal,
		Authorities: authorities,
		ExpiresAt:   expiresAt,
	}
}

// Identifier returns the principal identifier.
func (i *AuthenticatedIdentity) Identifier() string {
	return i.Principal.Identifier
}

// HasAuthority reports whether the identity holds the named authority.
func (i *AuthenticatedIdentity) HasAuthority(name string) bool {
	for _, a := range i.Authorities {
		if a == name {
			return true
		}
	}
	return false
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *AuthenticatedIdentity) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdentity, identity)
}

// IdentityFromContext returns the identity installed for this request, if any.
func IdentityFromContext(ctx context.Context) (*AuthenticatedIdentity, bool) {
	identity, ok := ctx.Value(constants.ContextKeyIdentity).(*AuthenticatedIdentity)
	return identity, ok && identity != nil
}
