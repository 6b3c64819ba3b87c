package handlers

import (
	"github.com/gin-gonic/gin"

	"gims/internal/core/apperror"
	appctx "gims/internal/core/context"
	"gims/internal/domain/auth"
	"gims/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires auth endpoints into public and protected groups.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.POST("/register", h.Register)
	protected.GET("/me", h.Me)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TokenResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   "Bearer",
		User:        dto.FromUser(user),
	})
}

// Register handles POST /auth/register. Only admins may create users.
func (h *AuthHandler) Register(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil || !user.IsAdmin {
		h.Error(c, apperror.NewForbidden("only administrators can register users"))
		return
	}

	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created.ID.String())
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	h.OK(c, gin.H{
		"userId":      user.UserID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"role":        user.Role,
		"permissions": user.Permissions,
		"isAdmin":     user.IsAdmin,
	})
}
