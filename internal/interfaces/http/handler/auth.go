package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaccess "github.com/crm/backend/internal/application/access"
	"github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves login, logout and the caller's own access data.
type AuthHandler struct {
	BaseHandler
	identity *identity.Service
	catalog  *appaccess.PermissionCatalog
}

func NewAuthHandler(base BaseHandler, identity *identity.Service, catalog *appaccess.PermissionCatalog) *AuthHandler {
	return &AuthHandler{BaseHandler: base, identity: identity, catalog: catalog}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "email and password are required")
		return
	}

	session, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromSession(session))
}

// Logout handles POST /api/v1/auth/logout. Revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		h.BadRequest(c, "no token to revoke")
		return
	}
	if err := h.identity.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.log.Info("user logged out", zap.Int64("user_id", claims.UserID))
	h.OK(c, nil)
}

// Me handles GET /api/v1/auth/me: the caller's resolved access context.
func (h *AuthHandler) Me(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	h.OK(c, dto.FromAccessContext(ac))
}

// Permissions handles GET /api/v1/auth/permissions: every permission
// key resolved for the caller, for the frontend to gate its UI.
func (h *AuthHandler) Permissions(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	decisions := h.catalog.GetAllUserPermissions(c.Request.Context(), ac)
	h.OK(c, dto.FromPermissions(decisions))
}
