// Package errors defines custom error types and error handling utilities for the admin auth service.
// Every error kind surfaced by the token codec, the validator and the login flow is an *AppError
// sentinel that maps to an HTTP status and compares with errors.Is by code.
package errors

import (
	stderrors "errors"
	"net/http"
	"time"
)

// Code identifies an error kind.
type Code string

const (
	CodeMalformedToken            Code = "malformed_token"
	CodeInvalidSignature          Code = "invalid_signature"
	CodeExpiredToken              Code = "expired_token"
	CodeSubjectMismatch           Code = "subject_mismatch"
	CodePrincipalNotFound         Code = "principal_not_found"
	CodeMissingIdentifier         Code = "missing_identifier"
	CodeInvalidCredentials        Code = "invalid_credentials"
	CodeAuthenticationUnavailable Code = "authentication_unavailable"
	CodeUnauthorized              Code = "unauthorized"
	CodeForbidden                 Code = "forbidden"
	CodeInvalidRequest            Code = "invalid_request"
	CodeRateLimitExceeded         Code = "rate_limit_exceeded"
	CodeInvalidConfig             Code = "invalid_config"
	CodeInternal                  Code = "internal_error"
)

const (
	metadataExpiresAt = "expires_at"

	// MetadataRetryAfter holds the whole seconds a rate limited client should wait.
	MetadataRetryAfter = "retry_after_seconds"
)

// AppError represents a structured application error
type AppError struct {
	Code       Code
	HTTPStatus int
	Message    string
	Metadata   map[string]interface{}
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithError returns a copy of the error with cause attached. The receiver is not modified,
// so package-level sentinels stay immutable.
func (e *AppError) WithError(cause error) *AppError {
	c := e.clone()
	c.cause = cause
	return c
}

// WithMessage returns a copy of the error with a different message.
func (e *AppError) WithMessage(msg string) *AppError {
	c := e.clone()
	c.Message = msg
	return c
}

// WithMetadata returns a copy of the error with an extra metadata entry.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	c := e.clone()
	c.Metadata[key] = value
	return c
}

func (e *AppError) clone() *AppError {
	md := make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	return &AppError{
		Code:       e.Code,
		HTTPStatus: e.HTTPStatus,
		Message:    e.Message,
		Metadata:   md,
		cause:      e.cause,
	}
}

// NewError creates a new AppError with the specified parameters
func NewError(code Code, httpStatus int, message string) *AppError {
	return &AppError{
		Code:       code,
		HTTPStatus: httpStatus,
		Message:    message,
		Metadata:   make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Errors
// ================================================================================

var (
	// Token errors. These never reach a client: the authentication pipeline downgrades
	// them to an anonymous request.
	ErrMalformedToken   = NewError(CodeMalformedToken, http.StatusUnauthorized, "token is malformed")
	ErrInvalidSignature = NewError(CodeInvalidSignature, http.StatusUnauthorized, "token signature is invalid")
	ErrExpiredToken     = NewError(CodeExpiredToken, http.StatusUnauthorized, "token has expired")
	ErrSubjectMismatch  = NewError(CodeSubjectMismatch, http.StatusUnauthorized, "token subject does not match principal")

	ErrPrincipalNotFound = NewError(CodePrincipalNotFound, http.StatusNotFound, "principal not found")

	// Login errors.
	ErrMissingIdentifier         = NewError(CodeMissingIdentifier, http.StatusBadRequest, "identifier is required")
	ErrInvalidCredentials        = NewError(CodeInvalidCredentials, http.StatusUnauthorized, "invalid identifier or password")
	ErrAuthenticationUnavailable = NewError(CodeAuthenticationUnavailable, http.StatusInternalServerError, "authentication is temporarily unavailable")

	// Route policy errors.
	ErrUnauthorized = NewError(CodeUnauthorized, http.StatusUnauthorized, "Unauthorized - Login required")
	ErrForbidden    = NewError(CodeForbidden, http.StatusForbidden, "Forbidden")

	ErrInvalidRequest     = NewError(CodeInvalidRequest, http.StatusBadRequest, "invalid request")
	ErrRateLimitExceeded  = NewError(CodeRateLimitExceeded, http.StatusTooManyRequests, "too many login attempts")
	ErrInvalidConfig      = NewError(CodeInvalidConfig, http.StatusInternalServerError, "invalid configuration")
	ErrInternalServer     = NewError(CodeInternal, http.StatusInternalServerError, "internal server error")
	ErrDatabaseOperation  = NewError(CodeInternal, http.StatusInternalServerError, "database operation failed")
	ErrDatabaseConnection = NewError(CodeInternal, http.StatusInternalServerError, "database connection failed")
)

// NewExpiredError builds an expired-token error carrying the original expiry.
func NewExpiredError(expiresAt time.Time) *AppError {
	return ErrExpiredToken.WithMetadata(metadataExpiresAt, expiresAt)
}

// NewRateLimitError builds a rate-limit error carrying the wait before the next attempt.
func NewRateLimitError(retryAfter time.Duration) *AppError {
	secs := int64(retryAfter / time.Second)
	if retryAfter%time.Second != 0 {
		secs++
	}
	return ErrRateLimitExceeded.WithMetadata(MetadataRetryAfter, secs)
}

// ExpiryOf returns the expiry recorded on an expired-token error.
func ExpiryOf(err error) (time.Time, bool) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Code != CodeExpiredToken {
		return time.Time{}, false
	}
	t, ok := appErr.Metadata[metadataExpiresAt].(time.Time)
	return t, ok
}

// ================================================================================
// Error Utilities
// ================================================================================

// Is is a passthrough to the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a passthrough to the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// New is a passthrough to the standard library errors.New.
func New(text string) error {
	return stderrors.New(text)
}

// AsAppError extracts the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal when err is not an AppError.
func CodeOf(err error) Code {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// IsTokenError reports whether err is one of the token verification failures.
func IsTokenError(err error) bool {
	switch CodeOf(err) {
	case CodeMalformedToken, CodeInvalidSignature, CodeExpiredToken, CodeSubjectMismatch:
		return true
	}
	return false
}

// ShouldLogError determines if an error should be logged at error level based on severity
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus >= http.StatusInternalServerError
	}
	return true
}

//Personal.AI order the ending
