package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/partner"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// PartnerHandler serves the scoped client registry.
type PartnerHandler struct {
	BaseHandler
	partners *partner.Service
}

func NewPartnerHandler(base BaseHandler, partners *partner.Service) *PartnerHandler {
	return &PartnerHandler{BaseHandler: base, partners: partners}
}

// List handles GET /api/v1/partners.
func (h *PartnerHandler) List(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	partners, err := h.partners.List(c.Request.Context(), ac, c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromPartners(partners))
}

// Get handles GET /api/v1/partners/:id.
func (h *PartnerHandler) Get(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid partner id")
		return
	}

	p, err := h.partners.Get(c.Request.Context(), ac, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromPartner(p))
}
