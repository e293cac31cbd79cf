package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by an admin bearer token.
// Only the subject, issued-at and expiry registered claims are populated.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds the claims for a token issued to subject at issuedAt, valid for ttl.
// NumericDate has whole-second precision: iat is truncated and exp is rounded up, so the
// token is never valid for less than ttl.
func NewClaims(subject string, issuedAt time.Time, ttl time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(ceilToSecond(issuedAt.Add(ttl))),
		},
	}
}

func ceilToSecond(t time.Time) time.Time {
	truncated := t.Truncate(time.Second)
	if truncated.Equal(t) {
		return truncated
	}
	return truncated.Add(time.Second)
}

// ExpiresAtTime returns the expiry, or the zero time when the claim is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAtTime returns the issued-at time, or the zero time when the claim is absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// IsExpiredAt reports whether the claims are expired at now. A token is expired from
// the instant of its expiry onwards; claims without an expiry are treated as expired.
func (c *Claims) IsExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}
