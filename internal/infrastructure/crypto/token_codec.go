package crypto

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
	"github.com/turtacn/adminauth/pkg/utils"
)

var _ service.TokenCodec = (*TokenCodec)(nil)

// TokenCodec issues and parses HS256-signed JWTs with a single static secret.
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	key    []byte
	ttl    time.Duration
	now    service.Clock
	parser *jwt.Parser
	log    logger.Logger
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now service.Clock) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec derives the signing key from secret. An empty secret or a ttl that is not a
// positive whole number of seconds is a configuration error; callers are expected to abort
// startup on it.
func NewTokenCodec(secret string, ttl time.Duration, log logger.Logger, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.ErrInvalidConfig.WithMessage("jwt signing secret must not be empty")
	}
	if ttl < time.Second || ttl%time.Second != 0 {
		return nil, errors.ErrInvalidConfig.WithMessage("jwt expiration must be a positive whole number of seconds")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	c := &TokenCodec{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
		log: log.WithComponent("token_codec"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)

	if len(c.key) < constants.MinRecommendedSecretBytes {
		c.log.Warn(context.Background(), "JWT signing secret is shorter than recommended",
			logger.Int("length_bytes", len(c.key)),
			logger.Int("recommended_bytes", constants.MinRecommendedSecretBytes),
		)
	}

	return c, nil
}

// TTL is the lifetime given to issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for identifier valid from now until now+ttl.
func (c *TokenCodec) Issue(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", errors.ErrMissingIdentifier
	}

	claims := models.NewClaims(identifier, c.now(), c.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		c.log.Error(ctx, "Failed to sign JWT", err, logger.String("subject", identifier))
		return "", errors.ErrAuthenticationUnavailable.WithError(err)
	}

	c.log.Debug(ctx, "Token issued",
		logger.String("subject", identifier),
		logger.String("preview", utils.TokenPreview(signed)),
		logger.Time("expires_at", claims.ExpiresAtTime()),
	)
	return signed, nil
}

// Parse verifies the token signature and only then decodes and checks its claims.
func (c *TokenCodec) Parse(ctx context.Context, tokenString string) (*models.Claims, error) {
	if tokenString == "" {
		return nil, errors.ErrMalformedToken.WithMessage("token is empty")
	}

	claims := &models.Claims{}
	_, err := c.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, classifyParseError(err, claims)
	}

	if claims.Subject == "" {
		return nil, errors.ErrMalformedToken.WithMessage("token has no subject")
	}
	return claims, nil
}

// classifyParseError maps jwt errors onto the token error taxonomy. The parser checks the
// signature before validating claims, so an expired error implies a verified signature and
// the expiry read from claims is trustworthy.
func classifyParseError(err error, claims *models.Claims) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.NewExpiredError(claims.ExpiresAtTime()).WithError(err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.ErrInvalidSignature.WithError(err)
	default:
		return errors.ErrMalformedToken.WithError(err)
	}
}
