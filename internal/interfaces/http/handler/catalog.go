package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/catalog"
	"github.com/crm/backend/internal/interfaces/http/dto"
)

// CatalogHandler serves the company-wide product and price listings.
type CatalogHandler struct {
	BaseHandler
	catalog *catalog.Service
}

func NewCatalogHandler(base BaseHandler, catalog *catalog.Service) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, catalog: catalog}
}

// ListProducts handles GET /api/v1/catalog/products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), ac.CompanyID, c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromCatalogProducts(products))
}

// ListPriceTables handles GET /api/v1/catalog/price-tables.
func (h *CatalogHandler) ListPriceTables(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}

	tables, err := h.catalog.ListPriceTables(c.Request.Context(), ac.CompanyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromPriceTables(tables))
}

// ListPrices handles GET /api/v1/catalog/price-tables/:id/prices.
func (h *CatalogHandler) ListPrices(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid price table id")
		return
	}

	prices, err := h.catalog.ListPrices(c.Request.Context(), ac.CompanyID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromPrices(prices))
}

// GetPrice handles GET /api/v1/catalog/price-tables/:id/prices/:productId.
func (h *CatalogHandler) GetPrice(c *gin.Context) {
	ac, ok := h.accessContext(c)
	if !ok {
		return
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "invalid price table id")
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		h.BadRequest(c, "invalid product id")
		return
	}

	p, err := h.catalog.GetPrice(c.Request.Context(), ac.CompanyID, tableID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.FromPrice(p))
}
