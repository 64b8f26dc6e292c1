// Package trade exposes read access to ERP sales orders. Orders carry
// no rep column of their own; visibility derives from the rep assigned
// to the order's partner, which is what the orders scope filter encodes.
package trade

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
)

// Order is a sales order header row (AS_PEDIDOS).
type Order struct {
	ID          int64 // NUNOTA
	CompanyID   int64
	PartnerID   int64
	PartnerName string
	IssuedAt    *time.Time
	Total       decimal.Decimal
	Status      string
}

// ListQuery narrows the order listing.
type ListQuery struct {
	PartnerID  *int64
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

type Repository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter, q ListQuery) ([]Order, error)
	FindByID(ctx context.Context, companyID, orderID int64, scope access.ScopeFilter) (*Order, error)
}

type Service struct {
	orders Repository
}

func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// List returns the orders of partners within the caller's scope.
func (s *Service) List(ctx context.Context, ac *access.Context, q ListQuery) ([]Order, error) {
	return s.orders.List(ctx, ac.CompanyID, ac.OrdersFilter(), q)
}

func (s *Service) Get(ctx context.Context, ac *access.Context, orderID int64) (*Order, error) {
	o, err := s.orders.FindByID(ctx, ac.CompanyID, orderID, ac.OrdersFilter())
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, shared.ErrNotFound
	}
	return o, nil
}
