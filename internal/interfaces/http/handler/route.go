package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/route"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// RouteHandler serves route planning and field visits.
type RouteHandler struct {
	BaseHandler
	routes *route.Service
}

func NewRouteHandler(base BaseHandler, routes *route.Service) *RouteHandler {
	return &RouteHandler{BaseHandler: base, routes: routes}
}

// List handles GET /api/v1/routes.
func (h *RouteHandler) List(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	routes, err := h.routes.ListRoutes(c.Request.Context(), ac)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromRoutes(routes))
}

// Get handles GET /api/v1/routes/:id.
func (h *RouteHandler) Get(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid route id")
		return
	}

	rt, err := h.routes.GetRoute(c.Request.Context(), ac, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromRoute(rt))
}

// Create handles POST /api/v1/routes.
func (h *RouteHandler) Create(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	var req dto.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "description is required")
		return
	}

	id, err := h.routes.CreateRoute(c.Request.Context(), ac, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"id": id})
}

// Update handles PUT /api/v1/routes/:id.
func (h *RouteHandler) Update(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid route id")
		return
	}
	var req dto.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "description is required")
		return
	}

	if err := h.routes.UpdateRoute(c.Request.Context(), ac, id, req.ToInput()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, nil)
}

// Delete handles DELETE /api/v1/routes/:id. Administrators only.
func (h *RouteHandler) Delete(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid route id")
		return
	}

	if err := h.routes.DeleteRoute(c.Request.Context(), ac, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, nil)
}

// ListVisits handles GET /api/v1/visits.
func (h *RouteHandler) ListVisits(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	routeID, err := queryInt64(c, "routeId")
	if err != nil {
		h.BadRequest(c, "routeId must be numeric")
		return
	}
	partnerID, err := queryInt64(c, "partnerId")
	if err != nil {
		h.BadRequest(c, "partnerId must be numeric")
		return
	}
	from, err := queryDate(c, "dateFrom")
	if err != nil {
		h.BadRequest(c, "dateFrom must be a date")
		return
	}
	to, err := queryDate(c, "dateTo")
	if err != nil {
		h.BadRequest(c, "dateTo must be a date")
		return
	}

	visits, err := h.routes.ListVisits(c.Request.Context(), ac, route.VisitQuery{
		RouteID:   routeID,
		PartnerID: partnerID,
		Status:    c.Query("status"),
		DateFrom:  from,
		DateTo:    to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromVisits(visits))
}

// CheckIn handles POST /api/v1/visits/checkin.
func (h *RouteHandler) CheckIn(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "partnerId is required")
		return
	}

	id, err := h.routes.CheckIn(c.Request.Context(), ac, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"id": id})
}

// CheckOut handles POST /api/v1/visits/:id/checkout.
func (h *RouteHandler) CheckOut(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid visit id")
		return
	}
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "malformed checkout payload")
		return
	}

	if err := h.routes.CheckOut(c.Request.Context(), ac, id, req.ToInput()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, nil)
}

// Cancel handles POST /api/v1/visits/:id/cancel.
func (h *RouteHandler) Cancel(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid visit id")
		return
	}
	var req dto.CancelVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, "malformed cancel payload")
		return
	}

	if err := h.routes.Cancel(c.Request.Context(), ac, id, req.Note); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, nil)
}
