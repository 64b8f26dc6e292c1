package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/auth"
)

// gin context keys shared between middleware and handlers.
const (
	ctxRequestID = "request_id"
	ctxClaims    = "auth_claims"
	ctxAccess    = "access_context"
)

// ClaimsFrom returns the verified token claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// AccessFrom returns the resolved access context stored by ResolveAccess.
func AccessFrom(c *gin.Context) (*access.Context, bool) {
	v, ok := c.Get(ctxAccess)
	if !ok {
		return nil, false
	}
	ac, ok := v.(*access.Context)
	return ac, ok
}
