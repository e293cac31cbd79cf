package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/turtacn/adminauth/internal/domain/models"
)

// AdminAccount is the persisted admin record.
type AdminAccount struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Identifier   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(64)"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (AdminAccount) TableName() string {
	return "admin_accounts"
}

// BeforeCreate assigns a UUID primary key to new records.
func (a *AdminAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *AdminAccount) toPrincipal() *models.Principal {
	return &models.Principal{
		Identifier:   a.Identifier,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
	}
}
