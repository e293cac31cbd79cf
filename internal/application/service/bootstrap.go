package service

import (
	"context"
	"strings"

	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/repository"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
	"github.com/turtacn/adminauth/pkg/utils"
)

// SeedBootstrapAdmin creates the configured bootstrap admin when it does not exist yet.
// It never overwrites an existing record. An empty identifier disables seeding.
func SeedBootstrapAdmin(ctx context.Context, admins repository.AdminRepository, cfg config.BootstrapConfig, region string, log logger.Logger) (created bool, err error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	identifier := strings.TrimSpace(cfg.Identifier)
	if identifier == "" {
		return false, nil
	}
	if cfg.PasswordHash == "" {
		return false, errors.ErrInvalidConfig.WithMessage("bootstrap admin requires a password hash")
	}
	if region != "" {
		if normalized, nerr := utils.NormalizeMobile(identifier, region); nerr == nil {
			identifier = normalized
		}
	}

	exists, err := admins.Exists(ctx, identifier)
	if err != nil {
		return false, errors.ErrDatabaseOperation.WithError(err)
	}
	if exists {
		log.Debug(ctx, "Bootstrap admin already present", logger.String("identifier", identifier))
		return false, nil
	}

	principal := &models.Principal{
		Identifier:   identifier,
		PasswordHash: cfg.PasswordHash,
		Role:         cfg.Role,
	}
	if err := admins.Save(ctx, principal); err != nil {
		return false, errors.ErrDatabaseOperation.WithError(err)
	}

	log.Info(ctx, "Bootstrap admin created",
		logger.String("identifier", identifier),
		logger.Bool("role_fallback", principal.HasRoleFallback()),
	)
	return true, nil
}
