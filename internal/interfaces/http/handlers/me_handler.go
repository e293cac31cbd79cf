package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/adminauth/internal/application/dto"
	"github.com/turtacn/adminauth/internal/interfaces/http/middleware"
	"github.com/turtacn/adminauth/pkg/errors"
)

// MeHandler reports the identity the current request authenticated as.
type MeHandler struct{}

// NewMeHandler creates a new MeHandler.
func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// Me handles GET /api/admin/me.
func (h *MeHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		dto.SendError(c, errors.ErrUnauthorized)
		return
	}

	authorities := make([]string, len(identity.Authorities))
	copy(authorities, identity.Authorities)
	dto.SendSuccess(c, dto.MeResponse{
		Identifier:  identity.Identifier(),
		Authorities: authorities,
		ExpiresAt:   identity.ExpiresAt.UTC(),
	})
}
