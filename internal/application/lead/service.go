package lead

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
)

// Repository is the lead persistence contract. List receives the scope
// filter computed from the caller's access context and must merge it
// into its query.
type Repository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter, q ListQuery) ([]Lead, error)
	// FindByID applies the scope filter to the point read as well, so an
	// out-of-scope lead reads as absent rather than forbidden.
	FindByID(ctx context.Context, companyID, leadID int64, scope access.ScopeFilter) (*Lead, error)
	Insert(ctx context.Context, companyID int64, createdBy *int64, in CreateInput) (*Lead, error)
	Update(ctx context.Context, companyID, leadID int64, in CreateInput) (*Lead, error)
	UpdateStage(ctx context.Context, companyID, leadID, stageID int64) error
	SoftDelete(ctx context.Context, companyID, leadID int64) error

	ListProducts(ctx context.Context, companyID, leadID int64) ([]Product, error)
	InsertProduct(ctx context.Context, companyID, leadID int64, in AddProductInput) error
	DeactivateProduct(ctx context.Context, companyID, itemID int64) error
	SumActiveProducts(ctx context.Context, companyID, leadID int64) (decimal.Decimal, error)
	SetValue(ctx context.Context, companyID, leadID int64, value decimal.Decimal) error
}

// ActivityRepository persists lead timeline entries.
type ActivityRepository interface {
	List(ctx context.Context, companyID int64, scope access.ScopeFilter, q ActivityQuery) ([]Activity, error)
	NextOrder(ctx context.Context, companyID int64, leadID *int64) (int64, error)
	Insert(ctx context.Context, companyID int64, a Activity) error
	UpdateStatus(ctx context.Context, companyID, activityID int64, status string) error
}

// Service applies access control and business rules over the lead store.
type Service struct {
	leads      Repository
	activities ActivityRepository
	log        *zap.Logger
	now        func() time.Time
}

func NewService(leads Repository, activities ActivityRepository, log *zap.Logger) *Service {
	return &Service{leads: leads, activities: activities, log: log, now: time.Now}
}

// List returns the leads visible to the caller, newest first.
func (s *Service) List(ctx context.Context, ac *access.Context, q ListQuery) ([]Lead, error) {
	return s.leads.List(ctx, ac.CompanyID, ac.LeadsFilter(), q)
}

// Get returns one lead the caller can see.
func (s *Service) Get(ctx context.Context, ac *access.Context, leadID int64) (*Lead, error) {
	return s.visibleLead(ctx, ac, leadID)
}

// Create inserts a lead authored by the calling user.
func (s *Service) Create(ctx context.Context, ac *access.Context, in CreateInput) (*Lead, error) {
	if !ac.CanCreateOrEdit() {
		return nil, access.ErrUnboundUser
	}
	if in.Name == "" {
		return nil, shared.ErrInvalidInput
	}
	createdBy := ac.UserID
	return s.leads.Insert(ctx, ac.CompanyID, &createdBy, in)
}

// Update rewrites the editable fields of a lead the caller can see.
func (s *Service) Update(ctx context.Context, ac *access.Context, leadID int64, in CreateInput) (*Lead, error) {
	if !ac.CanCreateOrEdit() {
		return nil, access.ErrUnboundUser
	}
	if _, err := s.visibleLead(ctx, ac, leadID); err != nil {
		return nil, err
	}
	return s.leads.Update(ctx, ac.CompanyID, leadID, in)
}

// MoveStage moves a lead to another kanban stage.
func (s *Service) MoveStage(ctx context.Context, ac *access.Context, leadID, stageID int64) (*Lead, error) {
	if _, err := s.visibleLead(ctx, ac, leadID); err != nil {
		return nil, err
	}
	if err := s.leads.UpdateStage(ctx, ac.CompanyID, leadID, stageID); err != nil {
		return nil, err
	}
	return s.leads.FindByID(ctx, ac.CompanyID, leadID, ac.LeadsFilter())
}

// Delete soft-deletes a lead (ATIVO = 'N').
func (s *Service) Delete(ctx context.Context, ac *access.Context, leadID int64) error {
	if !ac.CanCreateOrEdit() {
		return access.ErrUnboundUser
	}
	if _, err := s.visibleLead(ctx, ac, leadID); err != nil {
		return err
	}
	return s.leads.SoftDelete(ctx, ac.CompanyID, leadID)
}

// ListProducts returns the active items of a visible lead.
func (s *Service) ListProducts(ctx context.Context, ac *access.Context, leadID int64) ([]Product, error) {
	if _, err := s.visibleLead(ctx, ac, leadID); err != nil {
		return nil, err
	}
	return s.leads.ListProducts(ctx, ac.CompanyID, leadID)
}

// AddProduct attaches an item to a lead and refreshes the lead value
// from the sum of its active items.
func (s *Service) AddProduct(ctx context.Context, ac *access.Context, leadID int64, in AddProductInput) error {
	if !ac.CanCreateOrEdit() {
		return access.ErrUnboundUser
	}
	if _, err := s.visibleLead(ctx, ac, leadID); err != nil {
		return err
	}
	if err := s.leads.InsertProduct(ctx, ac.CompanyID, leadID, in); err != nil {
		return err
	}
	return s.recomputeValue(ctx, ac.CompanyID, leadID)
}

// RemoveProduct deactivates an item and refreshes the lead value.
func (s *Service) RemoveProduct(ctx context.Context, ac *access.Context, leadID, itemID int64) (decimal.Decimal, error) {
	if !ac.CanCreateOrEdit() {
		return decimal.Zero, access.ErrUnboundUser
	}
	if _, err := s.visibleLead(ctx, ac, leadID); err != nil {
		return decimal.Zero, err
	}
	if err := s.leads.DeactivateProduct(ctx, ac.CompanyID, itemID); err != nil {
		return decimal.Zero, err
	}
	if err := s.recomputeValue(ctx, ac.CompanyID, leadID); err != nil {
		return decimal.Zero, err
	}
	return s.leads.SumActiveProducts(ctx, ac.CompanyID, leadID)
}

func (s *Service) recomputeValue(ctx context.Context, companyID, leadID int64) error {
	total, err := s.leads.SumActiveProducts(ctx, companyID, leadID)
	if err != nil {
		return err
	}
	return s.leads.SetValue(ctx, companyID, leadID, total)
}

// ListActivities returns the timeline entries visible to the caller,
// optionally narrowed to one lead or a calendar window.
func (s *Service) ListActivities(ctx context.Context, ac *access.Context, q ActivityQuery) ([]Activity, error) {
	return s.activities.List(ctx, ac.CompanyID, ac.ActivitiesFilter(), q)
}

// CreateActivity appends an entry to the timeline. Entries starting
// before today begin overdue.
func (s *Service) CreateActivity(ctx context.Context, ac *access.Context, in CreateActivityInput) (*Activity, error) {
	if !ac.CanCreateOrEdit() {
		return nil, access.ErrUnboundUser
	}
	if in.Title == "" {
		return nil, shared.ErrInvalidInput
	}

	order, err := s.activities.NextOrder(ctx, ac.CompanyID, in.LeadID)
	if err != nil {
		return nil, err
	}

	status := ActivityWaiting
	if in.StartsAt != nil {
		today := s.now().Truncate(24 * time.Hour)
		if in.StartsAt.Truncate(24 * time.Hour).Before(today) {
			status = ActivityOverdue
		}
	}

	userID := ac.UserID
	a := Activity{
		LeadID:      in.LeadID,
		CompanyID:   ac.CompanyID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		UserID:      &userID,
		Extra:       in.Extra,
		Color:       in.Color,
		Order:       order,
		Active:      true,
		Status:      status,
	}
	if err := s.activities.Insert(ctx, ac.CompanyID, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateActivityStatus transitions an activity between
// AGUARDANDO, ATRASADO and REALIZADO.
func (s *Service) UpdateActivityStatus(ctx context.Context, ac *access.Context, activityID int64, status string) error {
	switch status {
	case ActivityWaiting, ActivityOverdue, ActivityDone:
	default:
		return shared.ErrInvalidInput
	}
	return s.activities.UpdateStatus(ctx, ac.CompanyID, activityID, status)
}

// visibleLead loads a lead through the caller's scope filter. A lead
// outside the caller's scope reads as absent, which avoids confirming
// its existence to users who cannot see it.
func (s *Service) visibleLead(ctx context.Context, ac *access.Context, leadID int64) (*Lead, error) {
	l, err := s.leads.FindByID(ctx, ac.CompanyID, leadID, ac.LeadsFilter())
	if err != nil {
		return nil, err
	}
	if l == nil {
		s.log.Debug("lead not visible",
			zap.Int64("lead_id", leadID),
			zap.Int64("user_id", ac.UserID))
		return nil, shared.ErrNotFound
	}
	return l, nil
}
