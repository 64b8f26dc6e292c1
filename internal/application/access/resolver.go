// Package access computes the per-request access context and answers
// permission-key checks. It is the only place raw role labels are
// interpreted; everything downstream works with the resolved context.
package access

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/crm/backend/internal/domain/access"
)

// Resolver builds an access context from the user's sales binding.
type Resolver struct {
	bindings domain.BindingRepository
	log      *zap.Logger
}

func NewResolver(bindings domain.BindingRepository, log *zap.Logger) *Resolver {
	return &Resolver{bindings: bindings, log: log}
}

// Resolve loads the binding for (userID, companyID) and derives the
// caller's role, rep and team. Fails closed: a missing binding is
// ErrUserNotFound, a non-admin without a rep is ErrUnboundUser.
func (r *Resolver) Resolve(ctx context.Context, userID, companyID int64) (*domain.Context, error) {
	b, err := r.bindings.FindBinding(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}

	role := domain.RoleFromLabel(b.FunctionLabel)
	if role.IsAdmin() {
		ac := domain.AdminContext(userID, companyID)
		// Admins may still carry a rep binding; keep it so admin-authored
		// records attribute correctly. Filters ignore it.
		ac.SalesRepID = b.SalesRepID
		return ac, nil
	}

	if b.SalesRepID == nil {
		r.log.Warn("user without sales rep binding denied",
			zap.Int64("user_id", userID),
			zap.Int64("company_id", companyID),
			zap.String("function", b.FunctionLabel))
		return nil, domain.ErrUnboundUser
	}

	ac := &domain.Context{
		UserID:       userID,
		CompanyID:    companyID,
		Role:         role,
		SalesRepID:   b.SalesRepID,
		ManagerRepID: b.ManagerRepID,
	}

	if b.RepType == domain.RepTypeManager {
		team, err := r.bindings.ListTeamRepIDs(ctx, *b.SalesRepID, companyID)
		if err != nil {
			return nil, err
		}
		ac.TeamRepIDs = team
	}
	return ac, nil
}

// ResolveFromClaims resolves from verified JWT claims. Administrator
// claims synthesize the context directly, skipping the binding lookup.
// The role label is only trustworthy because the JWT middleware
// verified the token signature before this is ever called.
func (r *Resolver) ResolveFromClaims(ctx context.Context, userID, companyID int64, roleLabel string) (*domain.Context, error) {
	if domain.RoleFromLabel(roleLabel).IsAdmin() {
		return domain.AdminContext(userID, companyID), nil
	}
	return r.Resolve(ctx, userID, companyID)
}
