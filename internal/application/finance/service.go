// Package finance exposes read access to ERP receivables, scoped the
// same partner-derived way as orders.
package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/access"
)

// Receivable is an open or settled installment (AS_FINANCEIRO).
type Receivable struct {
	ID          int64 // NUFIN
	CompanyID   int64
	PartnerID   int64
	PartnerName string
	DueDate     *time.Time
	Amount      decimal.Decimal
	SettledAt   *time.Time
}

// ListQuery narrows the receivable listing by due-date window.
type ListQuery struct {
	PartnerID *int64
	DueFrom   *time.Time
	DueTo     *time.Time
	OpenOnly  bool
}

type Repository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter, q ListQuery) ([]Receivable, error)
}

type Service struct {
	receivables Repository
}

func NewService(receivables Repository) *Service {
	return &Service{receivables: receivables}
}

// List returns the receivables of partners within the caller's scope.
func (s *Service) List(ctx context.Context, ac *access.Context, q ListQuery) ([]Receivable, error) {
	return s.receivables.List(ctx, ac.CompanyID, ac.ReceivablesFilter(), q)
}
