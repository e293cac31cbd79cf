// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/adminauth/internal/application/dto"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/repository"
	domainService "github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
	"github.com/turtacn/adminauth/pkg/utils"
)

// Login outcomes recorded on the login metrics.
const (
	LoginResultSuccess     = "success"
	LoginResultFailure     = "failure"
	LoginResultRateLimited = "rate_limited"
	LoginResultInvalid     = "invalid_request"
	LoginResultError       = "error"
)

// LoginAppService exchanges admin credentials for a bearer token.
type LoginAppService interface {
	// Login verifies the credentials in req and issues a token for the identifier.
	// The client IP, when known, is read from ctx under constants.ContextKeyClientIP.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// LoginOption customizes the login service.
type LoginOption func(*loginAppServiceImpl)

// WithPhoneRegion canonicalizes mobile-number identifiers for region before lookup.
func WithPhoneRegion(region string) LoginOption {
	return func(s *loginAppServiceImpl) {
		s.phoneRegion = region
	}
}

// WithAuditSink records login audit events to sink in addition to the audit log.
func WithAuditSink(sink domainService.AuditSink) LoginOption {
	return func(s *loginAppServiceImpl) {
		s.auditSink = sink
	}
}

type loginAppServiceImpl struct {
	admins      repository.AdminRepository
	passwords   domainService.PasswordVerifier
	codec       domainService.TokenCodec
	limiter     domainService.RateLimitService
	metrics     domainService.Metrics
	logger      logger.Logger
	audit       *logger.AuditLogger
	auditSink   domainService.AuditSink
	phoneRegion string
}

// NewLoginAppService creates the login service. limiter may be nil to disable rate limiting
// and metrics may be nil to discard observations.
func NewLoginAppService(
	admins repository.AdminRepository,
	passwords domainService.PasswordVerifier,
	codec domainService.TokenCodec,
	limiter domainService.RateLimitService,
	metrics domainService.Metrics,
	log logger.Logger,
	opts ...LoginOption,
) LoginAppService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	s := &loginAppServiceImpl{
		admins:    admins,
		passwords: passwords,
		codec:     codec,
		limiter:   limiter,
		metrics:   metrics,
		logger:    log.WithComponent("login_service"),
		audit:     logger.NewAuditLogger(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login implements LoginAppService.
func (s *loginAppServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (resp *dto.LoginResponse, err error) {
	start := time.Now()
	result := LoginResultError
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "Login panicked", fmt.Errorf("%v", r))
			resp, err = nil, errors.ErrAuthenticationUnavailable
			result = LoginResultError
		}
		s.metrics.RecordLogin(result, time.Since(start))
	}()

	if req == nil {
		result = LoginResultInvalid
		return nil, errors.ErrInvalidRequest.WithMessage("request body is required")
	}
	req.Normalize()
	if strings.TrimSpace(req.Identifier) == "" {
		result = LoginResultInvalid
		return nil, errors.ErrMissingIdentifier
	}
	if err := req.Validate(); err != nil {
		result = LoginResultInvalid
		return nil, errors.ErrInvalidRequest.WithMessage("identifier is invalid").WithError(err)
	}

	identifier := s.canonicalIdentifier(req.Identifier)
	clientIP := ClientIPFromContext(ctx)

	if retry, limited := s.checkRateLimit(ctx, identifier, clientIP); limited {
		result = LoginResultRateLimited
		return nil, errors.NewRateLimitError(retry)
	}

	principal, err := s.admins.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, errors.ErrPrincipalNotFound) {
			s.burnDummyCompare(req.Secret)
			result = LoginResultFailure
			s.audit.LogLoginFailure(ctx, identifier, clientIP, "unknown identifier")
			s.record(ctx, constants.AuditEventLoginFailed, identifier, clientIP, false, "unknown identifier")
			return nil, errors.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "Credential store lookup failed", err, logger.String("identifier", logger.MaskString(identifier)))
		return nil, errors.ErrAuthenticationUnavailable.WithError(err)
	}

	if !s.passwords.Verify(req.Secret, principal.PasswordHash) {
		result = LoginResultFailure
		s.audit.LogLoginFailure(ctx, identifier, clientIP, "password mismatch")
		s.record(ctx, constants.AuditEventLoginFailed, identifier, clientIP, false, "password mismatch")
		return nil, errors.ErrInvalidCredentials
	}

	if principal.HasRoleFallback() {
		s.logger.Warn(ctx, "Admin record has no role, granting default authority",
			logger.String("identifier", principal.Identifier),
			logger.String("authority", constants.AuthorityAdmin),
		)
		s.audit.LogRoleFallback(ctx, principal.Identifier)
		s.record(ctx, constants.AuditEventRoleFallback, principal.Identifier, clientIP, true, constants.AuthorityAdmin)
	}

	token, err := s.codec.Issue(ctx, principal.Identifier)
	if err != nil {
		s.logger.Error(ctx, "Failed to issue token", err, logger.String("identifier", principal.Identifier))
		return nil, errors.ErrAuthenticationUnavailable.WithError(err)
	}

	if s.limiter != nil {
		if rerr := s.limiter.Reset(ctx, constants.RateLimitScopeIdentifier, identifier); rerr != nil {
			s.logger.Warn(ctx, "Failed to reset login rate limit", logger.Error(rerr))
		}
	}

	result = LoginResultSuccess
	s.metrics.RecordTokenIssued()
	s.audit.LogLoginSuccess(ctx, principal.Identifier, clientIP)
	s.record(ctx, constants.AuditEventLoginSucceeded, principal.Identifier, clientIP, true, "")

	return &dto.LoginResponse{
		Token:      token,
		Identifier: principal.Identifier,
		TokenType:  string(constants.TokenTypeBearer),
		ExpiresIn:  int64(s.codec.TTL() / time.Second),
	}, nil
}

// checkRateLimit consumes one attempt per scope. Limiter failures fail open.
func (s *loginAppServiceImpl) checkRateLimit(ctx context.Context, identifier, clientIP string) (time.Duration, bool) {
	if s.limiter == nil {
		return 0, false
	}

	checks := []struct {
		scope constants.RateLimitScope
		key   string
	}{
		{constants.RateLimitScopeIP, clientIP},
		{constants.RateLimitScopeIdentifier, identifier},
	}
	for _, check := range checks {
		if check.key == "" {
			continue
		}
		allowed, retry, err := s.limiter.Allow(ctx, check.scope, check.key)
		if err != nil {
			s.logger.Warn(ctx, "Login rate limiter unavailable, allowing attempt",
				logger.String("scope", string(check.scope)),
				logger.Error(err),
			)
			continue
		}
		if !allowed {
			s.metrics.RecordRateLimitHit(string(check.scope))
			s.audit.LogRateLimitExceeded(ctx, check.scope, clientIP)
			s.record(ctx, constants.AuditEventRateLimitExceeded, identifier, clientIP, false, string(check.scope))
			return retry, true
		}
	}
	return 0, false
}

// record hands an event to the audit sink. Sink failures are logged and never fail the login.
func (s *loginAppServiceImpl) record(ctx context.Context, eventType constants.AuditEventType, identifier, clientIP string, success bool, detail string) {
	if s.auditSink == nil {
		return
	}
	event := models.NewAuditEvent(string(eventType), identifier, clientIP, success, time.Now())
	event.Detail = detail
	event.RequestID, _ = ctx.Value(constants.ContextKeyRequestID).(string)
	if err := s.auditSink.Record(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to record audit event",
			logger.String("event_type", event.EventType),
			logger.Error(err),
		)
	}
}

// burnDummyCompare spends the same bcrypt work on unknown identifiers as on known ones.
func (s *loginAppServiceImpl) burnDummyCompare(secret string) {
	if d, ok := s.passwords.(interface{ DummyHash() string }); ok {
		_ = s.passwords.Verify(secret, d.DummyHash())
	}
}

func (s *loginAppServiceImpl) canonicalIdentifier(raw string) string {
	identifier := strings.TrimSpace(raw)
	if s.phoneRegion == "" {
		return identifier
	}
	if normalized, err := utils.NormalizeMobile(identifier, s.phoneRegion); err == nil {
		return normalized
	}
	return identifier
}

// ClientIPFromContext returns the client IP recorded by the HTTP layer, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(constants.ContextKeyClientIP).(string)
	return ip
}
