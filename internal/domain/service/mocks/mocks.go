package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/pkg/constants"
)

// MockTokenCodec is a mock implementation of service.TokenCodec
type MockTokenCodec struct {
	mock.Mock
}

func (m *MockTokenCodec) Issue(ctx context.Context, identifier string) (string, error) {
	args := m.Called(ctx, identifier)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) Parse(ctx context.Context, token string) (*models.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claims), args.Error(1)
}

func (m *MockTokenCodec) TTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockPasswordVerifier is a mock implementation of service.PasswordVerifier
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Verify(plain, hash string) bool {
	args := m.Called(plain, hash)
	return args.Bool(0)
}

func (m *MockPasswordVerifier) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

// MockRateLimitService is a mock implementation of service.RateLimitService
type MockRateLimitService struct {
	mock.Mock
}

func (m *MockRateLimitService) Allow(ctx context.Context, scope constants.RateLimitScope, key string) (bool, time.Duration, error) {
	args := m.Called(ctx, scope, key)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *MockRateLimitService) Reset(ctx context.Context, scope constants.RateLimitScope, key string) error {
	args := m.Called(ctx, scope, key)
	return args.Error(0)
}

// MockAdminRepository is a mock implementation of repository.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func (m *MockAdminRepository) Save(ctx context.Context, principal *models.Principal) error {
	args := m.Called(ctx, principal)
	return args.Error(0)
}

func (m *MockAdminRepository) Exists(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

// MockAuditSink is a mock implementation of service.AuditSink
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Record(ctx context.Context, event models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
