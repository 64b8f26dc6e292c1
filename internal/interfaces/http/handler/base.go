// Package handler contains the HTTP endpoints. Handlers parse and
// validate the request, delegate to an application service with the
// caller's access context, and wrap the result in the response
// envelope. No business rules live here.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
)

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	log *zap.Logger
}

func NewBaseHandler(log *zap.Logger) BaseHandler {
	return BaseHandler{log: log}
}

// HandleError maps domain errors onto HTTP statuses; anything else is
// logged and becomes an opaque 500.
func (h BaseHandler) HandleError(c *gin.Context, err error) {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		c.JSON(dto.GetHTTPStatus(derr.Code), dto.Error(derr.Code, derr.Message))
		return
	}

	// The request-scoped logger already carries the request id and,
	// past the access middleware, the acting user.
	logger.FromContext(c.Request.Context()).Error("unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.Error("INTERNAL", "Internal server error"))
}

// BadRequest answers a malformed payload or parameter.
func (h BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.Error("INVALID_INPUT", message))
}

// OK wraps a payload in the success envelope.
func (h BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Success(data))
}

// Created wraps a payload in the success envelope with a 201.
func (h BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.Success(data))
}

// accessContext returns the resolved access context; its absence means
// the route was registered without the access middleware, which is a
// wiring bug, so the request is refused.
func (h BaseHandler) accessContext(c *gin.Context) (*access.Context, bool) {
	ac, ok := middleware.AccessFrom(c)
	if !ok {
		h.log.Error("access context missing", zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusUnauthorized, dto.Error("UNAUTHORIZED", "Not authenticated"))
	}
	return ac, ok
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional numeric query parameter, nil when absent.
func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryDate parses an optional date query parameter, accepting both a
// plain date and full RFC 3339.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
