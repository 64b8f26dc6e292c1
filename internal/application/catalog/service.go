// Package catalog serves the product and price-table listings used by
// order entry. Catalog data is company-wide: it carries no rep
// ownership, so no scope filter applies.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/shared"
)

// Product is a sellable item (AS_PRODUTOS).
type Product struct {
	ID          int64
	CompanyID   int64
	Description string
	Unit        string
	Active      bool
}

// PriceTable is a named price list (AS_TABELASPRECOS).
type PriceTable struct {
	ID          int64
	CompanyID   int64
	Description string
}

// Price is one product's price within a table (AS_PRECOS).
type Price struct {
	TableID   int64
	ProductID int64
	Value     decimal.Decimal
}

type Repository interface {
	ListProducts(ctx context.Context, companyID int64, search string) ([]Product, error)
	ListPriceTables(ctx context.Context, companyID int64) ([]PriceTable, error)
	ListPrices(ctx context.Context, companyID, tableID int64) ([]Price, error)
	FindPrice(ctx context.Context, companyID, tableID, productID int64) (*Price, error)
}

type Service struct {
	catalog Repository
}

func NewService(catalog Repository) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) ListProducts(ctx context.Context, companyID int64, search string) ([]Product, error) {
	return s.catalog.ListProducts(ctx, companyID, search)
}

func (s *Service) ListPriceTables(ctx context.Context, companyID int64) ([]PriceTable, error) {
	return s.catalog.ListPriceTables(ctx, companyID)
}

func (s *Service) ListPrices(ctx context.Context, companyID, tableID int64) ([]Price, error) {
	return s.catalog.ListPrices(ctx, companyID, tableID)
}

// GetPrice returns one product's price in a table, or
// shared.ErrNotFound when the product is not priced there.
func (s *Service) GetPrice(ctx context.Context, companyID, tableID, productID int64) (*Price, error) {
	p, err := s.catalog.FindPrice(ctx, companyID, tableID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.ErrNotFound
	}
	return p, nil
}
