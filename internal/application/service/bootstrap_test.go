package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service/mocks"
	"github.com/turtacn/adminauth/pkg/errors"
)

func TestSeedBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := config.BootstrapConfig{Identifier: " 9999999999 ", PasswordHash: "$2a$10$hash"}

	t.Run("disabled without identifier", func(t *testing.T) {
		repo := new(mocks.MockAdminRepository)
		created, err := SeedBootstrapAdmin(ctx, repo, config.BootstrapConfig{}, "", nil)
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("requires hash", func(t *testing.T) {
		repo := new(mocks.MockAdminRepository)
		_, err := SeedBootstrapAdmin(ctx, repo, config.BootstrapConfig{Identifier: "9999999999"}, "", nil)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})

	t.Run("creates missing admin", func(t *testing.T) {
		repo := new(mocks.MockAdminRepository)
		repo.On("Exists", ctx, "9999999999").Return(false, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(p *models.Principal) bool {
			return p.Identifier == "9999999999" && p.PasswordHash == "$2a$10$hash" && p.Role == ""
		})).Return(nil)

		created, err := SeedBootstrapAdmin(ctx, repo, cfg, "", nil)
		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("leaves existing admin alone", func(t *testing.T) {
		repo := new(mocks.MockAdminRepository)
		repo.On("Exists", ctx, "9999999999").Return(true, nil)

		created, err := SeedBootstrapAdmin(ctx, repo, cfg, "", nil)
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mocks.MockAdminRepository)
		repo.On("Exists", ctx, "9999999999").Return(false, assert.AnError)

		_, err := SeedBootstrapAdmin(ctx, repo, cfg, "", nil)
		assert.True(t, errors.Is(err, errors.ErrDatabaseOperation))
	})
}
