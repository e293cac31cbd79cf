package repository

import (
	"context"

	"github.com/turtacn/adminauth/internal/domain/models"
)

// AdminRepository is the credential store for administrative principals.
// Implementations must be safe for concurrent use.
type AdminRepository interface {
	// FindByIdentifier returns the admin record stored under identifier, or an error
	// matching errors.ErrPrincipalNotFound when none exists.
	FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error)

	// Save creates or updates the admin record keyed by principal.Identifier.
	Save(ctx context.Context, principal *models.Principal) error

	// Exists reports whether an admin record is stored under identifier.
	Exists(ctx context.Context, identifier string) (bool, error)
}
//Personal.AI order the ending
