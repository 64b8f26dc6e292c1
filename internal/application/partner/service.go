// Package partner exposes read access to the ERP partner registry.
// Partner rows are versioned snapshots; only the current one
// (SANKHYA_ATUAL = 'S') is served.
package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
)

// Partner is the current snapshot of a client/prospect record.
type Partner struct {
	ID        int64
	CompanyID int64
	Name      string
	Address   string
	City      string
	State     string
	RepID     *int64
	Active    bool
}

// Repository lists current partner snapshots with the scope filter
// merged into the query.
type Repository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter, search string) ([]Partner, error)
	FindByID(ctx context.Context, companyID, partnerID int64, scope access.ScopeFilter) (*Partner, error)
}

type Service struct {
	partners Repository
}

func NewService(partners Repository) *Service {
	return &Service{partners: partners}
}

// List returns the partners assigned to the caller's effective reps.
func (s *Service) List(ctx context.Context, ac *access.Context, search string) ([]Partner, error) {
	return s.partners.List(ctx, ac.CompanyID, ac.PartnersFilter(), search)
}

// Get returns one partner, or shared.ErrNotFound when it does not
// exist or falls outside the caller's scope.
func (s *Service) Get(ctx context.Context, ac *access.Context, partnerID int64) (*Partner, error) {
	p, err := s.partners.FindByID(ctx, ac.CompanyID, partnerID, ac.PartnersFilter())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.ErrNotFound
	}
	return p, nil
}
