package access

// Sales rep type flags as stored in AS_VENDEDORES.TIPVEND.
const (
	RepTypeIndividual = "V"
	RepTypeManager    = "G"
)

// Context is the per-request access context: who is asking, which company
// they operate in, and which sales reps they are allowed to see data for.
// It is computed fresh for every request and never cached across requests.
type Context struct {
	UserID       int64
	CompanyID    int64
	Role         Role
	SalesRepID   *int64 // nil when the user has no sales rep bound
	ManagerRepID *int64 // the bound rep's own manager, when present
	IsAdmin      bool
	TeamRepIDs   []int64 // subordinate reps, managers only, ascending rep id
}

// IsManager reports whether the context carries a team: the bound rep is a
// manager with at least one active subordinate.
func (c *Context) IsManager() bool {
	return len(c.TeamRepIDs) > 0
}

// HasRep reports whether a sales rep is bound to this user.
func (c *Context) HasRep() bool {
	return c.SalesRepID != nil
}

// CanCreateOrEdit reports whether the user may create or mutate protected
// rows: administrators always, everyone else only with a bound rep.
func (c *Context) CanCreateOrEdit() bool {
	return c.IsAdmin || c.SalesRepID != nil
}

// EffectiveRepIDs returns the rep set this context may see rows for: the
// bound rep plus, for managers, every subordinate rep. Nil for contexts
// without a bound rep.
func (c *Context) EffectiveRepIDs() []int64 {
	if c.SalesRepID == nil {
		return nil
	}
	ids := make([]int64, 0, 1+len(c.TeamRepIDs))
	ids = append(ids, *c.SalesRepID)
	ids = append(ids, c.TeamRepIDs...)
	return ids
}

// AdminContext synthesizes an administrator context without any rep binding.
// Used by the trusted-claims fast path: the caller must only invoke this for
// identities whose role claim was verified upstream.
func AdminContext(userID, companyID int64) *Context {
	return &Context{
		UserID:    userID,
		CompanyID: companyID,
		Role:      RoleAdministrator,
		IsAdmin:   true,
	}
}
