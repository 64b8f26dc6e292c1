package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// LeadHandler serves the kanban: leads, their products and the
// activity timeline.
type LeadHandler struct {
	BaseHandler
	leads *lead.Service
}

func NewLeadHandler(base BaseHandler, leads *lead.Service) *LeadHandler {
	return &LeadHandler{BaseHandler: base, leads: leads}
}

// List handles GET /api/v1/leads.
func (h *LeadHandler) List(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	funnelID, err := queryInt64(c, "funnelId")
	if err != nil {
		h.BadRequest(c, "funnelId must be numeric")
		return
	}
	partnerID, err := queryInt64(c, "partnerId")
	if err != nil {
		h.BadRequest(c, "partnerId must be numeric")
		return
	}
	from, err := queryDate(c, "createdFrom")
	if err != nil {
		h.BadRequest(c, "createdFrom must be a date")
		return
	}
	to, err := queryDate(c, "createdTo")
	if err != nil {
		h.BadRequest(c, "createdTo must be a date")
		return
	}

	leads, err := h.leads.List(c.Request.Context(), ac, lead.ListQuery{
		FunnelID:    funnelID,
		PartnerID:   partnerID,
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromLeads(leads))
}

// Get handles GET /api/v1/leads/:id.
func (h *LeadHandler) Get(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}

	l, err := h.leads.Get(c.Request.Context(), ac, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromLead(l))
}

// Create handles POST /api/v1/leads.
func (h *LeadHandler) Create(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	var req dto.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "name is required")
		return
	}

	l, err := h.leads.Create(c.Request.Context(), ac, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromLead(l))
}

// Update handles PUT /api/v1/leads/:id.
func (h *LeadHandler) Update(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}
	var req dto.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "name is required")
		return
	}

	l, err := h.leads.Update(c.Request.Context(), ac, id, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromLead(l))
}

// MoveStage handles PATCH /api/v1/leads/:id/stage.
func (h *LeadHandler) MoveStage(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}
	var req dto.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "stageId is required")
		return
	}

	l, err := h.leads.MoveStage(c.Request.Context(), ac, id, req.StageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromLead(l))
}

// Delete handles DELETE /api/v1/leads/:id.
func (h *LeadHandler) Delete(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}

	if err := h.leads.Delete(c.Request.Context(), ac, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, nil)
}

// ListProducts handles GET /api/v1/leads/:id/products.
func (h *LeadHandler) ListProducts(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}

	products, err := h.leads.ListProducts(c.Request.Context(), ac, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromLeadProducts(products))
}

// AddProduct handles POST /api/v1/leads/:id/products.
func (h *LeadHandler) AddProduct(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}
	var req dto.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "productId and quantity are required")
		return
	}

	if err := h.leads.AddProduct(c.Request.Context(), ac, id, req.ToInput()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, nil)
}

// RemoveProduct handles DELETE /api/v1/leads/:id/products/:itemId.
// Responds with the recomputed lead value.
func (h *LeadHandler) RemoveProduct(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid lead id")
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		h.BadRequest(c, "invalid item id")
		return
	}

	total, err := h.leads.RemoveProduct(c.Request.Context(), ac, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, gin.H{"value": total})
}

// ListActivities handles GET /api/v1/activities and
// GET /api/v1/leads/:id/activities.
func (h *LeadHandler) ListActivities(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	var q lead.ActivityQuery
	if c.Param("id") != "" {
		id, ok := pathID(c, "id")
		if !ok {
			h.BadRequest(c, "invalid lead id")
			return
		}
		q.LeadID = &id
	}
	var err error
	if q.StartFrom, err = queryDate(c, "startFrom"); err != nil {
		h.BadRequest(c, "startFrom must be a date")
		return
	}
	if q.StartTo, err = queryDate(c, "startTo"); err != nil {
		h.BadRequest(c, "startTo must be a date")
		return
	}

	activities, err := h.leads.ListActivities(c.Request.Context(), ac, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromActivities(activities))
}

// CreateActivity handles POST /api/v1/activities.
func (h *LeadHandler) CreateActivity(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "type and title are required")
		return
	}

	a, err := h.leads.CreateActivity(c.Request.Context(), ac, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.FromActivity(a))
}

// UpdateActivityStatus handles PATCH /api/v1/activities/:id/status.
func (h *LeadHandler) UpdateActivityStatus(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid activity id")
		return
	}
	var req dto.UpdateActivityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "status must be AGUARDANDO, ATRASADO or REALIZADO")
		return
	}

	if err := h.leads.UpdateActivityStatus(c.Request.Context(), ac, id, req.Status); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, nil)
}
