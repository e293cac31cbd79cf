// Package models defines the domain models for the admin authentication service.
package models

import (
	"strings"

	"github.com/turtacn/adminauth/pkg/constants"
)

// Principal is an immutable snapshot of an admin record as returned by the credential store.
// It is loaned to one request and never shared across requests.
type Principal struct {
	// Identifier is the admin's mobile number; it is the token subject.
	Identifier string `json:"identifier"`

	// PasswordHash is the bcrypt hash of the admin's password.
	PasswordHash string `json:"-"`

	// Role is the raw role name stored on the record. It may be empty.
	Role string `json:"role,omitempty"`
}

// ResolveAuthorities derives the authority set for role. An empty or blank role resolves to
// ROLE_ADMIN and fallback is reported as true so callers can log it.
//
// Granting admin on a missing role is a deliberate, logged policy rather than a rejection;
// revisit it if admin records may legitimately lack a role.
func ResolveAuthorities(role string) (authorities []string, fallback bool) {
	r := strings.TrimSpace(role)
	if r == "" {
		return []string{constants.AuthorityAdmin}, true
	}
	return []string{constants.AuthorityPrefix + strings.ToUpper(r)}, false
}

// Authorities returns the authority set granted to the principal.
func (p Principal) Authorities() []string {
	authorities, _ := ResolveAuthorities(p.Role)
	return authorities
}

// HasRoleFallback reports whether the principal's authorities come from the default role.
func (p Principal) HasRoleFallback() bool {
	_, fallback := ResolveAuthorities(p.Role)
	return fallback
}

// HasAuthority reports whether the principal holds the named authority.
func (p Principal) HasAuthority(name string) bool {
	for _, a := range p.Authorities() {
		if a == name {
			return true
		}
	}
	return false
}
