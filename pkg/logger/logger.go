// Package logger provides structured logging capabilities for the admin auth service.
// It defines the Logger interface consumed across the codebase and the field helpers
// used to build structured entries. The zap-backed implementation lives in
// internal/infrastructure/monitoring.
package logger

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/adminauth/pkg/constants"
)

// ================================================================================
// Logger Interface
// ================================================================================

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, message string, fields ...Field)

	// Info logs an informational message
	Info(ctx context.Context, message string, fields ...Field)

	// Warn logs a warning message
	Warn(ctx context.Context, message string, fields ...Field)

	// Error logs an error message
	Error(ctx context.Context, message string, err error, fields ...Field)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, message string, err error, fields ...Field)

	// WithFields creates a new logger with additional fields
	WithFields(fields ...Field) Logger

	// WithComponent creates a new logger for a specific component
	WithComponent(component string) Logger
}

// ================================================================================
// Field Type for Structured Logging
// ================================================================================

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand constructor for Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// String creates a string field
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Time creates a time field
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value.Format(time.RFC3339)}
}

// Any creates a field with any type
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// ================================================================================
// Sanitization
// ================================================================================

var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"private_key",
	"hash",
}

// SanitizeValue masks values logged under sensitive keys.
func SanitizeValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(keyLower, sensitiveKey) {
			if str, ok := value.(string); ok && len(str) > 0 {
				return MaskString(str)
			}
			return "***REDACTED***"
		}
	}
	return value
}

// MaskString partially masks a string value
func MaskString(s string) string {
	if len(s) <= 8 {
		return "***"
	}

	// Show first 4 and last 4 characters
	return s[:4] + "***" + s[len(s)-4:]
}

// ================================================================================
// Audit Logging
// ================================================================================

// AuditLogger is a specialized logger for audit events
type AuditLogger struct {
	logger Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.WithComponent("audit"),
	}
}

// LogAuditEvent logs an audit event
func (a *AuditLogger) LogAuditEvent(ctx context.Context, eventType constants.AuditEventType, fields ...Field) {
	auditFields := append([]Field{
		String("event_type", string(eventType)),
		String("event_category", "audit"),
		Time("event_timestamp", time.Now().UTC()),
	}, fields...)

	a.logger.Info(ctx, "Audit event", auditFields...)
}

// LogLoginSuccess logs a successful login
func (a *AuditLogger) LogLoginSuccess(ctx context.Context, identifier, clientIP string) {
	a.LogAuditEvent(ctx, constants.AuditEventLoginSucceeded,
		String("identifier", identifier),
		String("client_ip", clientIP),
	)
}

// LogLoginFailure logs a rejected login. The reason is operator-facing only.
func (a *AuditLogger) LogLoginFailure(ctx context.Context, identifier, clientIP, reason string) {
	a.LogAuditEvent(ctx, constants.AuditEventLoginFailed,
		String("identifier", identifier),
		String("client_ip", clientIP),
		String("failure_reason", reason),
	)
}

// LogRoleFallback logs that an admin record without a role was granted the default authority
func (a *AuditLogger) LogRoleFallback(ctx context.Context, identifier string) {
	a.LogAuditEvent(ctx, constants.AuditEventRoleFallback,
		String("identifier", identifier),
		String("granted_authority", constants.AuthorityAdmin),
	)
}

// LogRateLimitExceeded logs a rate limit exceeded event
func (a *AuditLogger) LogRateLimitExceeded(ctx context.Context, scope constants.RateLimitScope, clientIP string) {
	a.LogAuditEvent(ctx, constants.AuditEventRateLimitExceeded,
		String("scope", string(scope)),
		String("client_ip", clientIP),
	)
}
