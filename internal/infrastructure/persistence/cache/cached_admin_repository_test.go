package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service/mocks"
	"github.com/turtacn/adminauth/pkg/errors"
)

func TestCachedAdminRepository_HitsBackendOnce(t *testing.T) {
	backend := new(mocks.MockAdminRepository)
	backend.On("FindByIdentifier", mock.Anything, "alice").
		Return(&models.Principal{Identifier: "alice", Role: "ADMIN"}, nil).Once()

	repo := NewCachedAdminRepository(backend, time.Minute, nil)

	for i := 0; i < 3; i++ {
		p, err := repo.FindByIdentifier(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", p.Identifier)
	}
	backend.AssertExpectations(t)
}

func TestCachedAdminRepository_ReturnsCopies(t *testing.T) {
	backend := new(mocks.MockAdminRepository)
	backend.On("FindByIdentifier", mock.Anything, "alice").
		Return(&models.Principal{Identifier: "alice", Role: "ADMIN"}, nil).Once()
	repo := NewCachedAdminRepository(backend, time.Minute, nil)

	first, err := repo.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	first.Role = "MUTATED"

	second, err := repo.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", second.Role)
}

func TestCachedAdminRepository_DoesNotCacheMisses(t *testing.T) {
	backend := new(mocks.MockAdminRepository)
	backend.On("FindByIdentifier", mock.Anything, "ghost").Return(nil, errors.ErrPrincipalNotFound).Twice()
	repo := NewCachedAdminRepository(backend, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := repo.FindByIdentifier(context.Background(), "ghost")
		assert.True(t, errors.Is(err, errors.ErrPrincipalNotFound))
	}
	backend.AssertExpectations(t)
}

func TestCachedAdminRepository_SaveInvalidates(t *testing.T) {
	backend := new(mocks.MockAdminRepository)
	backend.On("FindByIdentifier", mock.Anything, "alice").
		Return(&models.Principal{Identifier: "alice", Role: "SUPPORT"}, nil).Once()
	backend.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	backend.On("FindByIdentifier", mock.Anything, "alice").
		Return(&models.Principal{Identifier: "alice", Role: "ADMIN"}, nil).Once()
	repo := NewCachedAdminRepository(backend, time.Minute, nil)

	p, err := repo.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "SUPPORT", p.Role)

	require.NoError(t, repo.Save(context.Background(), &models.Principal{Identifier: "alice", Role: "ADMIN"}))

	p, err = repo.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", p.Role)
	backend.AssertExpectations(t)
}

func TestCachedAdminRepository_NeverServesPasswordHash(t *testing.T) {
	backend := new(mocks.MockAdminRepository)
	backend.On("FindByIdentifier", mock.Anything, "alice").
		Return(&models.Principal{Identifier: "alice", PasswordHash: "hash", Role: "ADMIN"}, nil).Once()
	repo := NewCachedAdminRepository(backend, time.Minute, nil)

	for i := 0; i < 2; i++ {
		p, err := repo.FindByIdentifier(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, p.PasswordHash)
		assert.Equal(t, "ADMIN", p.Role)
	}
	backend.AssertExpectations(t)
}

func TestNewCachedAdminRepository_DisabledReturnsBackend(t *testing.T) {
	backend := new(mocks.MockAdminRepository)
	assert.Same(t, backend, NewCachedAdminRepository(backend, 0, nil))
}
