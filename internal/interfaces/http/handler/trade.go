package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/finance"
	"github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// TradeHandler serves the read-only order and receivable views.
type TradeHandler struct {
	BaseHandler
	orders      *trade.Service
	receivables *finance.Service
}

func NewTradeHandler(base BaseHandler, orders *trade.Service, receivables *finance.Service) *TradeHandler {
	return &TradeHandler{BaseHandler: base, orders: orders, receivables: receivables}
}

// ListOrders handles GET /api/v1/orders.
func (h *TradeHandler) ListOrders(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	partnerID, err := queryInt64(c, "partnerId")
	if err != nil {
		h.BadRequest(c, "partnerId must be numeric")
		return
	}
	from, err := queryDate(c, "issuedFrom")
	if err != nil {
		h.BadRequest(c, "issuedFrom must be a date")
		return
	}
	to, err := queryDate(c, "issuedTo")
	if err != nil {
		h.BadRequest(c, "issuedTo must be a date")
		return
	}

	orders, err := h.orders.List(c.Request.Context(), ac, trade.ListQuery{
		PartnerID:  partnerID,
		IssuedFrom: from,
		IssuedTo:   to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromOrders(orders))
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *TradeHandler) GetOrder(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	o, err := h.orders.Get(c.Request.Context(), ac, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromOrder(o))
}

// ListReceivables handles GET /api/v1/receivables.
func (h *TradeHandler) ListReceivables(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	partnerID, err := queryInt64(c, "partnerId")
	if err != nil {
		h.BadRequest(c, "partnerId must be numeric")
		return
	}
	from, err := queryDate(c, "dueFrom")
	if err != nil {
		h.BadRequest(c, "dueFrom must be a date")
		return
	}
	to, err := queryDate(c, "dueTo")
	if err != nil {
		h.BadRequest(c, "dueTo must be a date")
		return
	}

	receivables, err := h.receivables.List(c.Request.Context(), ac, finance.ListQuery{
		PartnerID: partnerID,
		DueFrom:   from,
		DueTo:     to,
		OpenOnly:  c.Query("open") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromReceivables(receivables))
}
