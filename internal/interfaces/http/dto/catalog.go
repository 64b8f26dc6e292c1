package dto

import (
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/application/catalog"
)

// CatalogProductResponse is one sellable item.
type CatalogProductResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
}

func FromCatalogProducts(products []catalog.Product) []CatalogProductResponse {
	out := make([]CatalogProductResponse, len(products))
	for i, p := range products {
		out[i] = CatalogProductResponse{ID: p.ID, Description: p.Description, Unit: p.Unit}
	}
	return out
}

// PriceTableResponse is one named price list.
type PriceTableResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

func FromPriceTables(tables []catalog.PriceTable) []PriceTableResponse {
	out := make([]PriceTableResponse, len(tables))
	for i, t := range tables {
		out[i] = PriceTableResponse{ID: t.ID, Description: t.Description}
	}
	return out
}

// PriceResponse is one product's price within a table.
type PriceResponse struct {
	TableID   int64           `json:"tableId"`
	ProductID int64           `json:"productId"`
	Value     decimal.Decimal `json:"value"`
}

func FromPrice(p *catalog.Price) PriceResponse {
	return PriceResponse{TableID: p.TableID, ProductID: p.ProductID, Value: p.Value}
}

func FromPrices(prices []catalog.Price) []PriceResponse {
	out := make([]PriceResponse, len(prices))
	for i := range prices {
		out[i] = FromPrice(&prices[i])
	}
	return out
}
