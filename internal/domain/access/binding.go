package access

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
)

// Binding is the user-to-salesrep assignment row joined with the rep record:
// AD_USUARIOSVENDAS joined to AS_VENDEDORES on (CODVEND, company).
type Binding struct {
	UserID        int64
	FunctionLabel string // raw FUNCAO value, converted to Role by the resolver
	SalesRepID    *int64
	RepType       string // TIPVEND: "V" individual, "G" manager; empty when no rep row
	ManagerRepID  *int64 // CODGER of the bound rep
}

// BindingRepository looks up user/rep bindings and manager teams.
type BindingRepository interface {
	// FindBinding returns the binding row for (userID, companyID), or
	// ErrUserNotFound when the user has no assignment in that company.
	FindBinding(ctx context.Context, userID, companyID int64) (*Binding, error)

	// ListTeamRepIDs returns the ids of all active, current sales reps whose
	// manager is managerRepID within the company, in ascending rep id order.
	ListTeamRepIDs(ctx context.Context, managerRepID, companyID int64) ([]int64, error)
}

// Errors surfaced by access resolution. ErrUserNotFound maps to an
// authentication-level failure; ErrUnboundUser is a hard 403 whose message
// names the remediation.
var (
	ErrUserNotFound = shared.NewDomainError("USER_NOT_FOUND",
		"User has no sales assignment in this company")
	ErrUnboundUser = shared.NewDomainError("UNBOUND_USER",
		"Your user has no sales rep or manager bound. Contact your administrator to link a sales rep before creating leads, orders, or accessing restricted features.")
)
