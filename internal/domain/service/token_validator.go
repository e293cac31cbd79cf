package service

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/pkg/errors"
)

// TokenValidator decides whether a token authenticates an expected principal.
type TokenValidator struct {
	codec TokenCodec
	now   Clock
}

// NewTokenValidator creates a validator on top of codec. A nil clock means time.Now.
func NewTokenValidator(codec TokenCodec, now Clock) *TokenValidator {
	if now == nil {
		now = time.Now
	}
	return &TokenValidator{codec: codec, now: now}
}

// Validate reports whether token is valid for expected. When it is not, the returned error is
// a diagnostic reason (MalformedToken, InvalidSignature, Expired, SubjectMismatch or
// AuthenticationUnavailable); it is never a failure of Validate itself.
func (v *TokenValidator) Validate(ctx context.Context, token string, expected models.Principal) (valid bool, reason error) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
			reason = errors.ErrAuthenticationUnavailable.WithError(fmt.Errorf("token validation panicked: %v", r))
		}
	}()

	claims, err := v.codec.Parse(ctx, token)
	if err != nil {
		if _, ok := errors.AsAppError(err); !ok {
			err = errors.ErrAuthenticationUnavailable.WithError(err)
		}
		return false, err
	}

	if claims.Subject != expected.Identifier {
		return false, errors.ErrSubjectMismatch
	}

	// Expiry is re-checked against the validator's own clock, independently of the codec.
	if claims.IsExpiredAt(v.now()) {
		return false, errors.NewExpiredError(claims.ExpiresAtTime())
	}

	return true, nil
}
