package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaccess "github.com/crm/backend/internal/application/access"
	domainshared "github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// Auth verifies the bearer token and rejects revoked tokens before the
// claims are trusted by anything downstream.
func Auth(tokens *auth.JWTService, blacklist *auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.Error("UNAUTHORIZED", "Missing or malformed Authorization header"))
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			code := "UNAUTHORIZED"
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error(code, msg))
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Blacklist outage fails closed. Letting a possibly revoked
			// token through is worse than a transient 401.
			log.Error("token blacklist check failed",
				zap.String("request_id", c.GetString(ctxRequestID)),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.Error("UNAUTHORIZED", "Could not verify token"))
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.Error("UNAUTHORIZED", "Token has been revoked"))
			return
		}

		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// ResolveAccess turns verified claims into the caller's access context.
// Runs after Auth on every protected route.
func ResolveAccess(resolver *appaccess.Resolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.Error("UNAUTHORIZED", "Not authenticated"))
			return
		}

		ac, err := resolver.ResolveFromClaims(c.Request.Context(), claims.UserID, claims.CompanyID, claims.RoleLabel)
		if err != nil {
			var derr *domainshared.DomainError
			if errors.As(err, &derr) {
				c.AbortWithStatusJSON(dto.GetHTTPStatus(derr.Code), dto.Error(derr.Code, derr.Message))
				return
			}
			log.Error("access context resolution failed",
				zap.String("request_id", c.GetString(ctxRequestID)),
				zap.Int64("user_id", claims.UserID),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.Error("INTERNAL", "Internal server error"))
			return
		}

		c.Set(ctxAccess, ac)
		// From here on, log lines carry who is acting.
		reqLog := logger.WithRequest(log, c.GetString(ctxRequestID), ac.UserID, ac.CompanyID)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))
		c.Next()
	}
}

// RequirePage gates a route group behind a PAGE_ permission key.
func RequirePage(catalog *appaccess.PermissionCatalog, page string) gin.HandlerFunc {
	return requirePermission(func(c *gin.Context) bool {
		ac, ok := AccessFrom(c)
		return ok && catalog.CanAccessPage(c.Request.Context(), ac, page)
	})
}

// RequireFeature gates a route behind a FEATURE_ permission key.
func RequireFeature(catalog *appaccess.PermissionCatalog, feature string) gin.HandlerFunc {
	return requirePermission(func(c *gin.Context) bool {
		ac, ok := AccessFrom(c)
		return ok && catalog.CanUseFeature(c.Request.Context(), ac, feature)
	})
}

func requirePermission(allowed func(*gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(c) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.Error("FORBIDDEN", "Permission denied"))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
