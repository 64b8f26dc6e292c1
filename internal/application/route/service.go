package route

import (
	"context"

	"go.uber.org/zap"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
)

// Repository persists routes and their ordered stops.
type Repository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter) ([]Route, error)
	FindByID(ctx context.Context, companyID, routeID int64, scope access.ScopeFilter) (*Route, error)
	Insert(ctx context.Context, companyID int64, in RouteInput) (int64, error)
	Update(ctx context.Context, companyID, routeID int64, in RouteInput) error
	ReplaceStops(ctx context.Context, routeID int64, stops []StopInput) error
	SoftDelete(ctx context.Context, companyID, routeID int64) error
}

// VisitRepository persists visit check-ins and check-outs.
type VisitRepository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter, q VisitQuery) ([]Visit, error)
	FindByID(ctx context.Context, companyID, visitID int64, scope access.ScopeFilter) (*Visit, error)
	InsertCheckIn(ctx context.Context, companyID, repID int64, in CheckInInput) (int64, error)
	UpdateCheckOut(ctx context.Context, companyID, visitID int64, in CheckOutInput) error
	Cancel(ctx context.Context, companyID, visitID int64, note string) error
}

// Service applies access control over route planning and field visits.
type Service struct {
	routes Repository
	visits VisitRepository
	log    *zap.Logger
}

func NewService(routes Repository, visits VisitRepository, log *zap.Logger) *Service {
	return &Service{routes: routes, visits: visits, log: log}
}

// ListRoutes returns the active routes of the caller's effective reps.
func (s *Service) ListRoutes(ctx context.Context, ac *access.Context) ([]Route, error) {
	return s.routes.List(ctx, ac.CompanyID, ac.RoutesFilter())
}

// GetRoute returns one route with its ordered stops.
func (s *Service) GetRoute(ctx context.Context, ac *access.Context, routeID int64) (*Route, error) {
	rt, err := s.routes.FindByID(ctx, ac.CompanyID, routeID, ac.RoutesFilter())
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, shared.ErrNotFound
	}
	return rt, nil
}

// CreateRoute creates a route. When the payload names no rep, the
// route belongs to the caller's own rep.
func (s *Service) CreateRoute(ctx context.Context, ac *access.Context, in RouteInput) (int64, error) {
	if !ac.CanCreateOrEdit() {
		return 0, access.ErrUnboundUser
	}
	if in.Description == "" {
		return 0, shared.ErrInvalidInput
	}
	if in.RepID == nil {
		in.RepID = ac.SalesRepID
	}
	if in.RepID == nil {
		return 0, access.ErrUnboundUser
	}
	return s.routes.Insert(ctx, ac.CompanyID, in)
}

// UpdateRoute rewrites a route and, when stops are provided, replaces
// the full stop list.
func (s *Service) UpdateRoute(ctx context.Context, ac *access.Context, routeID int64, in RouteInput) error {
	if !ac.CanCreateOrEdit() {
		return access.ErrUnboundUser
	}
	if _, err := s.GetRoute(ctx, ac, routeID); err != nil {
		return err
	}
	if in.RepID == nil {
		in.RepID = ac.SalesRepID
	}
	if err := s.routes.Update(ctx, ac.CompanyID, routeID, in); err != nil {
		return err
	}
	if in.Stops != nil {
		return s.routes.ReplaceStops(ctx, routeID, in.Stops)
	}
	return nil
}

// DeleteRoute soft-deletes a route. Administrators only.
func (s *Service) DeleteRoute(ctx context.Context, ac *access.Context, routeID int64) error {
	if !ac.IsAdmin {
		return shared.ErrForbidden
	}
	return s.routes.SoftDelete(ctx, ac.CompanyID, routeID)
}

// ListVisits returns the visits of the caller's effective reps.
func (s *Service) ListVisits(ctx context.Context, ac *access.Context, q VisitQuery) ([]Visit, error) {
	return s.visits.List(ctx, ac.CompanyID, ac.VisitsFilter(), q)
}

// CheckIn opens a visit at a partner for the caller's own rep.
func (s *Service) CheckIn(ctx context.Context, ac *access.Context, in CheckInInput) (int64, error) {
	if !ac.CanCreateOrEdit() || ac.SalesRepID == nil {
		return 0, access.ErrUnboundUser
	}
	id, err := s.visits.InsertCheckIn(ctx, ac.CompanyID, *ac.SalesRepID, in)
	if err != nil {
		return 0, err
	}
	s.log.Info("visit check-in",
		zap.Int64("visit_id", id),
		zap.Int64("partner_id", in.PartnerID),
		zap.Int64("rep_id", *ac.SalesRepID))
	return id, nil
}

// CheckOut closes a visit the caller can see.
func (s *Service) CheckOut(ctx context.Context, ac *access.Context, visitID int64, in CheckOutInput) error {
	if !ac.CanCreateOrEdit() {
		return access.ErrUnboundUser
	}
	v, err := s.visibleVisit(ctx, ac, visitID)
	if err != nil {
		return err
	}
	if v.Status != VisitCheckedIn {
		return shared.ErrInvalidState
	}
	return s.visits.UpdateCheckOut(ctx, ac.CompanyID, visitID, in)
}

// Cancel marks a visit cancelled.
func (s *Service) Cancel(ctx context.Context, ac *access.Context, visitID int64, note string) error {
	if !ac.CanCreateOrEdit() {
		return access.ErrUnboundUser
	}
	if _, err := s.visibleVisit(ctx, ac, visitID); err != nil {
		return err
	}
	if note == "" {
		note = "Visita cancelada"
	}
	return s.visits.Cancel(ctx, ac.CompanyID, visitID, note)
}

func (s *Service) visibleVisit(ctx context.Context, ac *access.Context, visitID int64) (*Visit, error) {
	v, err := s.visits.FindByID(ctx, ac.CompanyID, visitID, ac.VisitsFilter())
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.ErrNotFound
	}
	return v, nil
}
