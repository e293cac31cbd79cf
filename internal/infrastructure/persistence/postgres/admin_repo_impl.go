package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/repository"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
)

// AdminRepoImpl implements AdminRepository on a gorm database.
type AdminRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewAdminRepository creates a gorm-backed admin repository.
func NewAdminRepository(conn *DBConnection, log logger.Logger) repository.AdminRepository {
	return &AdminRepoImpl{
		db:     conn.DB(),
		logger: log.WithComponent("admin_repository"),
	}
}

// FindByIdentifier loads the admin whose identifier matches exactly.
func (r *AdminRepoImpl) FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error) {
	var account AdminAccount
	err := r.db.WithContext(ctx).
		Where("identifier = ?", identifier).
		Take(&account).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug(ctx, "Admin not found", logger.String("identifier", identifier))
			return nil, errors.ErrPrincipalNotFound
		}
		r.logger.Error(ctx, "Failed to load admin", err, logger.String("identifier", identifier))
		return nil, errors.ErrDatabaseOperation.WithError(err)
	}
	return account.toPrincipal(), nil
}

// Save inserts the admin or, when the identifier already exists, replaces its hash and role.
func (r *AdminRepoImpl) Save(ctx context.Context, principal *models.Principal) error {
	if principal == nil || principal.Identifier == "" {
		return errors.ErrMissingIdentifier
	}
	start := time.Now()

	now := time.Now().UTC()
	account := AdminAccount{
		Identifier:   principal.Identifier,
		PasswordHash: principal.PasswordHash,
		Role:         principal.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "updated_at"}),
		}).
		Create(&account).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to save admin", err, logger.String("identifier", principal.Identifier))
		return errors.ErrDatabaseOperation.WithError(err)
	}

	r.logger.Info(ctx, "Admin saved",
		logger.String("identifier", principal.Identifier),
		logger.String("role", principal.Role),
		logger.Int64("latency_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// Exists reports whether an admin with identifier is stored.
func (r *AdminRepoImpl) Exists(ctx context.Context, identifier string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AdminAccount{}).
		Where("identifier = ?", identifier).
		Count(&count).Error
	if err != nil {
		return false, errors.ErrDatabaseOperation.WithError(err)
	}
	return count > 0, nil
}

//Personal.AI order the ending
