package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/adminauth/internal/application/dto"
	"github.com/turtacn/adminauth/internal/application/service"
	"github.com/turtacn/adminauth/pkg/constants"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	loginService service.LoginAppService
	logger       logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(loginService service.LoginAppService, log logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &AuthHandler{
		loginService: loginService,
		logger:       log.WithComponent("auth_handler"),
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	ctx := context.WithValue(c.Request.Context(), constants.ContextKeyClientIP, c.ClientIP())
	resp, err := h.loginService.Login(ctx, &req)
	if err != nil {
		if errors.ShouldLogError(err) {
			h.logger.Error(ctx, "Login failed", err)
		}
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, resp)
}
