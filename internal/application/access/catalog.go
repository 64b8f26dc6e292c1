package access

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/permission"
)

// PermissionCatalog answers permission-key checks for a resolved
// context. Lookups that fail deny rather than error: a broken ACL
// table must never grant access, and callers are not equipped to do
// anything smarter with the failure than the log line here.
type PermissionCatalog struct {
	perms permission.Repository
	log   *zap.Logger
}

func NewPermissionCatalog(perms permission.Repository, log *zap.Logger) *PermissionCatalog {
	return &PermissionCatalog{perms: perms, log: log}
}

// CheckPermission resolves one key for the caller: user override
// first, then the role default, deny when the key is unknown.
func (c *PermissionCatalog) CheckPermission(ctx context.Context, ac *domain.Context, key string) permission.Decision {
	ov, err := c.perms.FindOverride(ctx, ac.UserID, ac.CompanyID, key)
	if err != nil {
		c.logDenied(key, ac, err)
		return permission.Decision{}
	}
	def, err := c.perms.FindDefinition(ctx, key)
	if err != nil {
		c.logDenied(key, ac, err)
		return permission.Decision{}
	}
	return permission.Resolve(ac.Role, def, ov)
}

// CanAccessPage checks a PAGE_ key; the prefix may be omitted.
func (c *PermissionCatalog) CanAccessPage(ctx context.Context, ac *domain.Context, page string) bool {
	return c.CheckPermission(ctx, ac, prefixed(permission.PagePrefix, page)).Allowed
}

// CanUseFeature checks a FEATURE_ key; the prefix may be omitted.
func (c *PermissionCatalog) CanUseFeature(ctx context.Context, ac *domain.Context, feature string) bool {
	return c.CheckPermission(ctx, ac, prefixed(permission.FeaturePrefix, feature)).Allowed
}

// GetDataScope returns the visibility tier of a DATA_ key, defaulting
// to OWN when the key resolves without a scope.
func (c *PermissionCatalog) GetDataScope(ctx context.Context, ac *domain.Context, key string) permission.DataScope {
	d := c.CheckPermission(ctx, ac, prefixed(permission.DataPrefix, key))
	if d.DataScope == "" {
		return permission.ScopeOwn
	}
	return d.DataScope
}

// GetAllUserPermissions resolves every defined key plus every override
// the user has, in two queries. The merge uses the same resolution as
// CheckPermission, so the bulk result always agrees with single
// checks. A query failure yields an empty map.
func (c *PermissionCatalog) GetAllUserPermissions(ctx context.Context, ac *domain.Context) map[string]permission.Decision {
	defs, err := c.perms.ListDefinitions(ctx)
	if err != nil {
		c.logDenied("*", ac, err)
		return map[string]permission.Decision{}
	}
	ovs, err := c.perms.ListOverrides(ctx, ac.UserID, ac.CompanyID)
	if err != nil {
		c.logDenied("*", ac, err)
		return map[string]permission.Decision{}
	}

	byKey := make(map[string]*permission.Override, len(ovs))
	for i := range ovs {
		byKey[ovs[i].Key] = &ovs[i]
	}

	out := make(map[string]permission.Decision, len(defs)+len(ovs))
	for i := range defs {
		def := &defs[i]
		out[def.Key] = permission.Resolve(ac.Role, def, byKey[def.Key])
	}
	// Overrides on keys without a definition still apply.
	for key, ov := range byKey {
		if _, seen := out[key]; !seen {
			out[key] = permission.Resolve(ac.Role, nil, ov)
		}
	}
	return out
}

func prefixed(prefix, key string) string {
	if strings.HasPrefix(key, prefix) {
		return key
	}
	return prefix + key
}

func (c *PermissionCatalog) logDenied(key string, ac *domain.Context, err error) {
	c.log.Error("permission check failed, denying",
		zap.String("key", key),
		zap.Int64("user_id", ac.UserID),
		zap.Int64("company_id", ac.CompanyID),
		zap.Error(err))
}
