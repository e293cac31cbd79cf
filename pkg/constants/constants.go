// Package constants defines system-wide constants for the admin auth service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Token Constants
// ================================================================================

// TokenType represents the type of authentication token
type TokenType string

const (
	// TokenTypeBearer represents the Bearer token type for HTTP Authorization header
	TokenTypeBearer TokenType = "Bearer"
)

const (
	// SigningAlgorithm is the only JWT algorithm accepted by the token codec
	SigningAlgorithm = "HS256"

	// DefaultTokenTTL is the default lifetime for issued tokens (24 hours)
	DefaultTokenTTL = 24 * time.Hour

	// MinRecommendedSecretBytes is the secret length (256 bits) below which a warning is logged
	MinRecommendedSecretBytes = 32

	// TokenPreviewLength is the number of leading token characters safe to log
	TokenPreviewLength = 10
)

// ================================================================================
// Authority Constants
// ================================================================================

const (
	// AuthorityPrefix is prepended to the upper-cased role name to form an authority
	AuthorityPrefix = "ROLE_"

	// DefaultRole is applied when an admin record carries no role
	DefaultRole = "ADMIN"

	// AuthorityAdmin is the authority granted to administrators
	AuthorityAdmin = AuthorityPrefix + DefaultRole
)

// ================================================================================
// HTTP Constants
// ================================================================================

const (
	// HeaderAuthorization is the standard authorization header
	HeaderAuthorization = "Authorization"

	// HeaderRequestID carries the request correlation ID
	HeaderRequestID = "X-Request-ID"

	// BearerPrefix is the exact prefix required in the Authorization header
	BearerPrefix = "Bearer "

	// LoginPath is the login endpoint
	LoginPath = "/auth/login"

	// AuthPathPrefix marks routes that are always reachable without authentication
	AuthPathPrefix = "/auth/"

	// DefaultProtectedPrefix marks routes that require an authenticated identity
	DefaultProtectedPrefix = "/api/"

	// UnauthorizedMessage is the body message for protected routes without identity
	UnauthorizedMessage = "Unauthorized - Login required"
)

// ================================================================================
// Rate Limiting Constants
// ================================================================================

const (
	// DefaultLoginAttemptsPerMinute is the default login budget per client
	DefaultLoginAttemptsPerMinute = 10

	// RateLimitWindowTTL is the time window for rate limiting counters (1 minute)
	RateLimitWindowTTL = 1 * time.Minute
)

// RateLimitScope defines the scope level for rate limiting
type RateLimitScope string

const (
	// RateLimitScopeIP applies per client IP
	RateLimitScopeIP RateLimitScope = "ip"

	// RateLimitScopeIdentifier applies per login identifier
	RateLimitScopeIdentifier RateLimitScope = "identifier"
)

// ================================================================================
// Cache Constants
// ================================================================================

const (
	// CacheKeyPrefixAdmin is the prefix for cached admin records
	CacheKeyPrefixAdmin = "admin:"

	// CacheKeyPrefixRateLimit is the prefix for rate limiting counter entries
	CacheKeyPrefixRateLimit = "ratelimit:"
)

// ================================================================================
// Audit Event Constants
// ================================================================================

// AuditEventType categorizes audit log entries
type AuditEventType string

const (
	// AuditEventLoginSucceeded is logged when a token is issued after login
	AuditEventLoginSucceeded AuditEventType = "login_succeeded"

	// AuditEventLoginFailed is logged when credentials are rejected
	AuditEventLoginFailed AuditEventType = "login_failed"

	// AuditEventRoleFallback is logged when an admin record has no role
	AuditEventRoleFallback AuditEventType = "role_fallback"

	// AuditEventRateLimitExceeded is logged when a client exceeds its login budget
	AuditEventRateLimitExceeded AuditEventType = "rate_limit_exceeded"
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	// LogLevelDebug is the most verbose logging level
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo is the standard informational logging level
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn indicates potential issues
	LogLevelWarn LogLevel = "warn"

	// LogLevelError indicates errors that need attention
	LogLevelError LogLevel = "error"

	// LogLevelFatal indicates critical errors that cause service termination
	LogLevelFatal LogLevel = "fatal"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyIdentity is the key for the authenticated identity in context
	ContextKeyIdentity ContextKey = "authenticated_identity"

	// ContextKeyClientIP is the key for client IP address in context
	ContextKeyClientIP ContextKey = "client_ip"
)

//Personal.AI order the ending
