package access

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopeFilter is a parameterized WHERE-clause addition restricting a base
// query to the rows visible to one access context. Fragment always starts
// with "AND" so callers can append it to an existing WHERE clause; Binds
// carries the named parameters the fragment references.
//
// Administrators get an unrestricted filter (empty fragment, no binds).
// A context that should see nothing gets the explicit no-access filter,
// never an accidentally-empty fragment.
type ScopeFilter struct {
	Fragment string
	Binds    map[string]any
}

const noAccessFragment = "AND 1 = 0"

// Unrestricted returns the filter that adds no constraint.
func Unrestricted() ScopeFilter {
	return ScopeFilter{Binds: map[string]any{}}
}

// NoAccess returns the always-false filter. Every builder falls back to it
// for a non-admin context without a bound rep, so a malformed context
// yields zero rows instead of all rows.
func NoAccess() ScopeFilter {
	return ScopeFilter{Fragment: noAccessFragment, Binds: map[string]any{}}
}

// IsUnrestricted reports whether the filter adds no constraint.
func (f ScopeFilter) IsUnrestricted() bool {
	return f.Fragment == ""
}

// IsNoAccess reports whether the filter excludes every row.
func (f ScopeFilter) IsNoAccess() bool {
	return f.Fragment == noAccessFragment
}

// inRepList renders a rep-id list for direct interpolation into an
// IN (...) clause. Rep ids are server-computed trusted integers, never
// request input; accepting only []int64 is what keeps the interpolation
// safe. Do not widen this to strings.
func inRepList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// LeadsFilter restricts AD_LEADS (alias l) by authorship. Leads are owned
// by the user that created them, so team visibility goes through the
// rep-to-user assignment table: a rep can have zero, one, or several bound
// user accounts, and all of them count.
func (c *Context) LeadsFilter() ScopeFilter {
	return c.authoredByFilter("l")
}

// ActivitiesFilter restricts AD_ADLEADSATIVIDADES (alias a), same
// authored-by shape as leads.
func (c *Context) ActivitiesFilter() ScopeFilter {
	return c.authoredByFilter("a")
}

func (c *Context) authoredByFilter(alias string) ScopeFilter {
	if c.IsAdmin {
		return Unrestricted()
	}
	if !c.IsManager() {
		return ScopeFilter{
			Fragment: fmt.Sprintf("AND %s.CODUSUARIO = :userId", alias),
			Binds:    map[string]any{"userId": c.UserID},
		}
	}
	return ScopeFilter{
		Fragment: fmt.Sprintf(
			"AND %s.CODUSUARIO IN (SELECT uv.CODUSUARIO FROM AD_USUARIOSVENDAS uv WHERE uv.CODVEND IN (%s) AND uv.ID_EMPRESA = :idEmpresa)",
			alias, inRepList(c.EffectiveRepIDs())),
		Binds: map[string]any{"idEmpresa": c.CompanyID},
	}
}

// PartnersFilter restricts AS_PARCEIROS by the rep assigned to the partner
// row (CODVEND, no alias: partner queries select from the partner table
// directly).
func (c *Context) PartnersFilter() ScopeFilter {
	if c.IsAdmin {
		return Unrestricted()
	}
	if c.SalesRepID == nil {
		return NoAccess()
	}
	if c.IsManager() {
		return ScopeFilter{
			Fragment: fmt.Sprintf("AND CODVEND IN (%s)", inRepList(c.EffectiveRepIDs())),
			Binds:    map[string]any{},
		}
	}
	return ScopeFilter{
		Fragment: "AND CODVEND = :codVendedor",
		Binds:    map[string]any{"codVendedor": *c.SalesRepID},
	}
}

// OrdersFilter restricts AS_PEDIDOS (alias cab) through the referenced
// partner's current snapshot. Partners keep historical rows; only the
// SANKHYA_ATUAL = 'S' row carries the live rep assignment, and the
// correlated EXISTS avoids duplicating order rows when several snapshots
// match.
func (c *Context) OrdersFilter() ScopeFilter {
	return c.partnerDerivedFilter("cab")
}

// ReceivablesFilter restricts AS_FINANCEIRO (alias F), same
// partner-snapshot shape as orders.
func (c *Context) ReceivablesFilter() ScopeFilter {
	return c.partnerDerivedFilter("F")
}

func (c *Context) partnerDerivedFilter(alias string) ScopeFilter {
	if c.IsAdmin {
		return Unrestricted()
	}
	if c.SalesRepID == nil {
		return NoAccess()
	}
	if c.IsManager() {
		return ScopeFilter{
			Fragment: fmt.Sprintf(
				"AND EXISTS (SELECT 1 FROM AS_PARCEIROS p WHERE p.CODPARC = %[1]s.CODPARC AND p.ID_SISTEMA = %[1]s.ID_SISTEMA AND p.SANKHYA_ATUAL = 'S' AND p.CODVEND IN (%[2]s))",
				alias, inRepList(c.EffectiveRepIDs())),
			Binds: map[string]any{},
		}
	}
	return ScopeFilter{
		Fragment: fmt.Sprintf(
			"AND EXISTS (SELECT 1 FROM AS_PARCEIROS p WHERE p.CODPARC = %[1]s.CODPARC AND p.ID_SISTEMA = %[1]s.ID_SISTEMA AND p.SANKHYA_ATUAL = 'S' AND p.CODVEND = :codVend)",
			alias),
		Binds: map[string]any{"codVend": *c.SalesRepID},
	}
}

// RoutesFilter restricts AD_ROTAS (alias r) by the rep stored on the row.
func (c *Context) RoutesFilter() ScopeFilter {
	return c.repOwnedFilter("r")
}

// VisitsFilter restricts AD_VISITAS (alias v) by the rep stored on the row.
func (c *Context) VisitsFilter() ScopeFilter {
	return c.repOwnedFilter("v")
}

func (c *Context) repOwnedFilter(alias string) ScopeFilter {
	if c.IsAdmin {
		return Unrestricted()
	}
	if c.SalesRepID == nil {
		return NoAccess()
	}
	if c.IsManager() {
		return ScopeFilter{
			Fragment: fmt.Sprintf("AND %s.CODVEND IN (%s)", alias, inRepList(c.EffectiveRepIDs())),
			Binds:    map[string]any{},
		}
	}
	return ScopeFilter{
		Fragment: fmt.Sprintf("AND %s.CODVEND = :codVend", alias),
		Binds:    map[string]any{"codVend": *c.SalesRepID},
	}
}
