package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/internal/domain/service/mocks"
	"github.com/turtacn/adminauth/pkg/errors"
)

var (
	issuedAt = time.Unix(1_700_000_000, 0)
	admin    = models.Principal{Identifier: "9999999999", Role: "ADMIN"}
)

func fixedClock(t time.Time) service.Clock {
	return func() time.Time { return t }
}

func TestTokenValidator_Valid(t *testing.T) {
	codec := new(mocks.MockTokenCodec)
	codec.On("Parse", mock.Anything, "tok").Return(models.NewClaims(admin.Identifier, issuedAt, time.Hour), nil)

	v := service.NewTokenValidator(codec, fixedClock(issuedAt.Add(time.Minute)))
	valid, reason := v.Validate(context.Background(), "tok", admin)

	assert.True(t, valid)
	assert.NoError(t, reason)
	codec.AssertExpectations(t)
}

func TestTokenValidator_SubjectMismatch(t *testing.T) {
	codec := new(mocks.MockTokenCodec)
	codec.On("Parse", mock.Anything, "tok").Return(models.NewClaims("someone-else", issuedAt, time.Hour), nil)

	v := service.NewTokenValidator(codec, fixedClock(issuedAt))
	valid, reason := v.Validate(context.Background(), "tok", admin)

	assert.False(t, valid)
	assert.True(t, errors.Is(reason, errors.ErrSubjectMismatch))
}

func TestTokenValidator_ExpiredByOwnClock(t *testing.T) {
	codec := new(mocks.MockTokenCodec)
	codec.On("Parse", mock.Anything, "tok").Return(models.NewClaims(admin.Identifier, issuedAt, time.Hour), nil)

	v := service.NewTokenValidator(codec, fixedClock(issuedAt.Add(time.Hour)))
	valid, reason := v.Validate(context.Background(), "tok", admin)

	assert.False(t, valid)
	assert.True(t, errors.Is(reason, errors.ErrExpiredToken))
	exp, ok := errors.ExpiryOf(reason)
	assert.True(t, ok)
	assert.True(t, exp.Equal(issuedAt.Add(time.Hour)))
}

func TestTokenValidator_PropagatesCodecErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"malformed", errors.ErrMalformedToken, errors.ErrMalformedToken},
		{"bad signature", errors.ErrInvalidSignature, errors.ErrInvalidSignature},
		{"expired", errors.NewExpiredError(issuedAt), errors.ErrExpiredToken},
		{"unknown failure", errors.New("boom"), errors.ErrAuthenticationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := new(mocks.MockTokenCodec)
			codec.On("Parse", mock.Anything, "tok").Return(nil, tt.err)

			valid, reason := service.NewTokenValidator(codec, nil).Validate(context.Background(), "tok", admin)
			assert.False(t, valid)
			assert.True(t, errors.Is(reason, tt.want), "got %v", reason)
		})
	}
}

type panickingCodec struct{ mocks.MockTokenCodec }

func (p *panickingCodec) Parse(context.Context, string) (*models.Claims, error) {
	panic("codec exploded")
}

func TestTokenValidator_RecoversFromPanic(t *testing.T) {
	valid, reason := service.NewTokenValidator(&panickingCodec{}, nil).Validate(context.Background(), "tok", admin)

	assert.False(t, valid)
	assert.True(t, errors.Is(reason, errors.ErrAuthenticationUnavailable))
}
