// Package middleware holds the gin middleware of the HTTP interface: the per-request
// authentication pipeline, the route policy and the observability chain.
package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/repository"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
	"github.com/turtacn/adminauth/pkg/utils"
)

// Terminal states of one pipeline run, recorded on the authentication metrics.
const (
	OutcomeNoToken       = "no_token"
	OutcomeRejected      = "rejected"
	OutcomeAuthenticated = "authenticated"
	OutcomeSkipped       = "already_authenticated"
)

// Authenticator resolves a bearer token into an authenticated identity for the request.
type Authenticator struct {
	codec     service.TokenCodec
	admins    repository.AdminRepository
	validator *service.TokenValidator
	metrics   service.Metrics
	logger    logger.Logger
}

// NewAuthenticator wires the pipeline collaborators. metrics may be nil.
func NewAuthenticator(
	codec service.TokenCodec,
	admins repository.AdminRepository,
	validator *service.TokenValidator,
	metrics service.Metrics,
	log logger.Logger,
) *Authenticator {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Authenticator{
		codec:     codec,
		admins:    admins,
		validator: validator,
		metrics:   metrics,
		logger:    log.WithComponent("authentication"),
	}
}

// Authenticate runs the pipeline once per request and always continues the chain. A
// rejected or missing token leaves the request anonymous; the route policy decides later
// whether anonymity is acceptable.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := models.IdentityFromContext(c.Request.Context()); ok {
			a.metrics.RecordAuthentication(OutcomeSkipped)
			c.Next()
			return
		}

		identity, outcome := a.resolve(c.Request.Context(), c.GetHeader(constants.HeaderAuthorization), c.Request.URL.Path)
		a.metrics.RecordAuthentication(outcome)
		if identity != nil {
			c.Request = c.Request.WithContext(models.WithIdentity(c.Request.Context(), identity))
			c.Set(string(constants.ContextKeyIdentity), identity)
		}
		c.Next()
	}
}

// resolve walks NoToken -> TokenPresent -> PrincipalResolved -> Authenticated. Any failure
// ends in Rejected; panics are treated the same way.
func (a *Authenticator) resolve(ctx context.Context, header, path string) (identity *models.AuthenticatedIdentity, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error(ctx, "Authentication panicked, continuing anonymously", fmt.Errorf("%v", r),
				logger.String("path", path))
			identity, outcome = nil, OutcomeRejected
		}
	}()

	token, ok := utils.ExtractBearer(header)
	if !ok {
		return nil, OutcomeNoToken
	}

	claims, err := a.codec.Parse(ctx, token)
	if err != nil {
		a.reject(ctx, path, err)
		return nil, OutcomeRejected
	}

	principal, err := a.admins.FindByIdentifier(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, errors.ErrPrincipalNotFound) {
			a.reject(ctx, path, err)
		} else {
			a.logger.Error(ctx, "Credential store lookup failed during authentication", err,
				logger.String("path", path))
			a.metrics.RecordTokenRejected(string(errors.CodeAuthenticationUnavailable))
		}
		return nil, OutcomeRejected
	}

	if valid, reason := a.validator.Validate(ctx, token, *principal); !valid {
		a.reject(ctx, path, reason)
		return nil, OutcomeRejected
	}

	if principal.HasRoleFallback() {
		a.logger.Warn(ctx, "Admin record has no role, granting default authority",
			logger.String("identifier", principal.Identifier),
			logger.String("authority", constants.AuthorityAdmin),
		)
	}

	return models.NewAuthenticatedIdentity(*principal, claims.ExpiresAtTime()), OutcomeAuthenticated
}

func (a *Authenticator) reject(ctx context.Context, path string, reason error) {
	code := errors.CodeOf(reason)
	a.metrics.RecordTokenRejected(string(code))
	a.logger.Warn(ctx, "Bearer token rejected",
		logger.String("reason", string(code)),
		logger.String("path", path),
	)
}

// IdentityFromContext returns the identity installed by Authenticate, if any.
func IdentityFromContext(ctx context.Context) (*models.AuthenticatedIdentity, bool) {
	return models.IdentityFromContext(ctx)
}

// CurrentIdentity is IdentityFromContext for gin handlers.
func CurrentIdentity(c *gin.Context) (*models.AuthenticatedIdentity, bool) {
	return models.IdentityFromContext(c.Request.Context())
}
