package crypto

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time         { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCodec(t *testing.T, ttl time.Duration, clock *fakeClock) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, ttl, logger.NewNoopLogger(), WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_RejectsBadConfig(t *testing.T) {
	_, err := NewTokenCodec("", time.Hour, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = NewTokenCodec(testSecret, 0, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	for _, ttl := range []time.Duration{time.Millisecond, 500 * time.Millisecond, 1500 * time.Millisecond} {
		_, err = NewTokenCodec(testSecret, ttl, nil)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "ttl %s", ttl)
	}

	codec, err := NewTokenCodec("short", time.Hour, nil)
	require.NoError(t, err, "a short secret is accepted with a warning")
	assert.Equal(t, time.Hour, codec.TTL())
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := newTestCodec(t, 24*time.Hour, clock)

	token, err := codec.Issue(context.Background(), "9999999999")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := codec.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "9999999999", claims.Subject)
	assert.True(t, clock.t.Equal(claims.IssuedAtTime()))
	assert.True(t, clock.t.Add(24*time.Hour).Equal(claims.ExpiresAtTime()))
}

func TestTokenCodec_SubSecondIssueInstant(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 200_000_000)}
	codec := newTestCodec(t, time.Second, clock)
	validator := service.NewTokenValidator(codec, clock.Now)
	alice := models.Principal{Identifier: "alice", Role: "ADMIN"}

	token, err := codec.Issue(context.Background(), "alice")
	require.NoError(t, err)

	claims, err := codec.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, time.Unix(1_700_000_000, 0).Equal(claims.IssuedAtTime()))
	assert.True(t, time.Unix(1_700_000_002, 0).Equal(claims.ExpiresAtTime()), "expiry rounds up")

	valid, reason := validator.Validate(context.Background(), token, alice)
	assert.True(t, valid)
	assert.NoError(t, reason)

	// Still valid after the full configured lifetime.
	clock.Advance(time.Second)
	valid, _ = validator.Validate(context.Background(), token, alice)
	assert.True(t, valid)

	clock.Advance(800 * time.Millisecond)
	valid, reason = validator.Validate(context.Background(), token, alice)
	assert.False(t, valid)
	assert.True(t, errors.Is(reason, errors.ErrExpiredToken))
}

func TestTokenCodec_IssueIsDeterministicForSameInstant(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := newTestCodec(t, time.Hour, clock)

	a, err := codec.Issue(context.Background(), "alice")
	require.NoError(t, err)
	b, err := codec.Issue(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTokenCodec_IssueRequiresIdentifier(t *testing.T) {
	codec := newTestCodec(t, time.Hour, &fakeClock{t: time.Now()})

	_, err := codec.Issue(context.Background(), "")
	assert.True(t, errors.Is(err, errors.ErrMissingIdentifier))
}

func TestTokenCodec_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := newTestCodec(t, time.Minute, clock)

	token, err := codec.Issue(context.Background(), "alice")
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	_, err = codec.Parse(context.Background(), token)
	require.NoError(t, err)

	// Expired from the instant of expiry onwards.
	clock.Advance(time.Second)
	_, err = codec.Parse(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExpiredToken))

	exp, ok := errors.ExpiryOf(err)
	require.True(t, ok)
	assert.True(t, time.Unix(1_700_000_060, 0).Equal(exp))
}

func TestTokenCodec_TamperedTokens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, time.Hour, clock)

	token, err := codec.Issue(context.Background(), "alice")
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		replacement := alphabet[(strings.IndexByte(alphabet, token[i])+1)%len(alphabet)]
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := codec.Parse(context.Background(), tampered)
		require.Error(t, err, "tampered at index %d", i)
		assert.True(t,
			errors.Is(err, errors.ErrInvalidSignature) || errors.Is(err, errors.ErrMalformedToken),
			"index %d: unexpected error %v", i, err)
	}
}

func TestTokenCodec_RejectsGarbage(t *testing.T) {
	codec := newTestCodec(t, time.Hour, &fakeClock{t: time.Now()})

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c", "...."} {
		_, err := codec.Parse(context.Background(), raw)
		assert.True(t, errors.Is(err, errors.ErrMalformedToken), "input %q gave %v", raw, err)
	}
}

func TestTokenCodec_RejectsOtherSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	other, err := NewTokenCodec("another-secret-another-secret-xx", time.Hour, nil, WithClock(clock.Now))
	require.NoError(t, err)
	token, err := other.Issue(context.Background(), "alice")
	require.NoError(t, err)

	_, err = newTestCodec(t, time.Hour, clock).Parse(context.Background(), token)
	assert.True(t, errors.Is(err, errors.ErrInvalidSignature))
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, time.Hour, clock)
	claims := models.NewClaims("alice", clock.t, time.Hour)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Parse(context.Background(), unsigned)
	assert.True(t, errors.Is(err, errors.ErrInvalidSignature))

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = codec.Parse(context.Background(), hs512)
	assert.True(t, errors.Is(err, errors.ErrInvalidSignature))
}

func TestTokenCodec_RejectsMissingSubjectOrExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, time.Hour, clock)

	noSubject := models.NewClaims("", clock.t, time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noSubject).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = codec.Parse(context.Background(), token)
	assert.True(t, errors.Is(err, errors.ErrMalformedToken))

	noExpiry := &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, noExpiry).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = codec.Parse(context.Background(), token)
	assert.True(t, errors.Is(err, errors.ErrMalformedToken))
}

func TestTokenCodec_WithValidator(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	codec := newTestCodec(t, time.Hour, clock)
	validator := service.NewTokenValidator(codec, clock.Now)

	aliceToken, err := codec.Issue(context.Background(), "alice")
	require.NoError(t, err)

	alice := models.Principal{Identifier: "alice", Role: "ADMIN"}
	bob := models.Principal{Identifier: "bob", Role: "ADMIN"}

	valid, reason := validator.Validate(context.Background(), aliceToken, alice)
	assert.True(t, valid)
	assert.NoError(t, reason)

	valid, reason = validator.Validate(context.Background(), aliceToken, bob)
	assert.False(t, valid)
	assert.True(t, errors.Is(reason, errors.ErrSubjectMismatch))

	clock.Advance(time.Hour)
	valid, reason = validator.Validate(context.Background(), aliceToken, alice)
	assert.False(t, valid)
	assert.True(t, errors.Is(reason, errors.ErrExpiredToken))
}
