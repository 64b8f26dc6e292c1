// Package permission holds the fine-grained permission model: named keys
// gated per user, with per-user overrides falling back to per-role defaults.
// This is independent of the row-level scope filtering in domain/access;
// it answers "may this user open this page / use this feature" rather than
// "which rows may they see".
package permission

import (
	"context"

	"github.com/crm/backend/internal/domain/access"
)

// DataScope is the coarse visibility tier attached to DATA-category keys.
type DataScope string

const (
	ScopeOwn  DataScope = "OWN"
	ScopeTeam DataScope = "TEAM"
	ScopeAll  DataScope = "ALL"
)

// Category classifies a permission key. Only DATA keys carry a DataScope.
type Category string

const (
	CategoryPage    Category = "PAGE"
	CategoryFeature Category = "FEATURE"
	CategoryData    Category = "DATA"
)

// Key prefixes for the sugar lookups.
const (
	PagePrefix    = "PAGE_"
	FeaturePrefix = "FEATURE_"
	DataPrefix    = "DATA_"
)

// Definition is a role-default row from AD_ACL_PERMISSION_DEFS.
type Definition struct {
	Key                string
	Category           Category
	DefaultAdmin       bool
	DefaultManager     bool
	DefaultSalesperson bool
}

// Override is a per-user row from AD_ACL_USER_RULES. DataScope is empty
// when the rule does not pin a scope.
type Override struct {
	Key       string
	Allowed   bool
	DataScope DataScope
}

// Decision is the outcome of resolving one key for one user.
// DataScope is empty when no scope applies to the key.
type Decision struct {
	Allowed   bool
	DataScope DataScope
}

// Repository loads permission configuration rows.
type Repository interface {
	// FindOverride returns the per-user rule for the key, or nil when none.
	FindOverride(ctx context.Context, userID, companyID int64, key string) (*Override, error)

	// FindDefinition returns the role-default definition, or nil for
	// unknown keys.
	FindDefinition(ctx context.Context, key string) (*Definition, error)

	// ListDefinitions returns every definition row.
	ListDefinitions(ctx context.Context) ([]Definition, error)

	// ListOverrides returns every per-user rule for (userID, companyID).
	ListOverrides(ctx context.Context, userID, companyID int64) ([]Override, error)
}

// Resolve computes the decision for one key. The override wins whenever
// present, even for keys without a definition row. With no override, the
// role default applies and the scope is derived from the role, but only
// surfaced for DATA-category keys. An unknown key without an override
// denies.
func Resolve(role access.Role, def *Definition, ov *Override) Decision {
	if ov != nil {
		return Decision{Allowed: ov.Allowed, DataScope: ov.DataScope}
	}
	if def == nil {
		return Decision{}
	}

	var allowed bool
	var scope DataScope
	switch role {
	case access.RoleAdministrator:
		allowed = def.DefaultAdmin
		scope = ScopeAll
	case access.RoleManager:
		allowed = def.DefaultManager
		scope = ScopeTeam
	default:
		allowed = def.DefaultSalesperson
		scope = ScopeOwn
	}

	if def.Category != CategoryData {
		scope = ""
	}
	return Decision{Allowed: allowed, DataScope: scope}
}
