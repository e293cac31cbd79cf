package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/errors"
)

var _ service.AuditSink = (*GormSink)(nil)

// GormSink stores audit events in the auth_audit_events table.
type GormSink struct {
	db *gorm.DB
}

// NewGormSink creates a GORM-backed sink on db.
func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

// Migrate creates or updates the audit table.
func (s *GormSink) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.AuditEvent{}); err != nil {
		return errors.ErrDatabaseOperation.WithMessage("failed to migrate audit table").WithError(err)
	}
	return nil
}

// Record inserts event.
func (s *GormSink) Record(ctx context.Context, event models.AuditEvent) error {
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return errors.ErrDatabaseOperation.WithMessage("failed to store audit event").WithError(err)
	}
	return nil
}

// Recent returns up to limit events for identifier, newest first. An empty identifier
// matches every event.
func (s *GormSink) Recent(ctx context.Context, identifier string, limit int) ([]models.AuditEvent, error) {
	query := s.db.WithContext(ctx).Order("timestamp desc").Limit(limit)
	if identifier != "" {
		query = query.Where("identifier = ?", identifier)
	}
	var events []models.AuditEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, errors.ErrDatabaseOperation.WithError(err)
	}
	return events, nil
}
