package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func adminCtx() *Context {
	return AdminContext(1, 1)
}

func salespersonCtx() *Context {
	return &Context{UserID: 42, CompanyID: 1, Role: RoleSalesperson, SalesRepID: repID(7)}
}

func managerCtx() *Context {
	return &Context{UserID: 10, CompanyID: 1, Role: RoleManager, SalesRepID: repID(3), TeamRepIDs: []int64{4, 5}}
}

// Non-admin without a bound rep. Should not occur given resolver
// validation, but every builder must fail closed on it.
func unboundCtx() *Context {
	return &Context{UserID: 99, CompanyID: 1, Role: RoleOther}
}

func allFilters(c *Context) map[string]ScopeFilter {
	return map[string]ScopeFilter{
		"leads":       c.LeadsFilter(),
		"partners":    c.PartnersFilter(),
		"orders":      c.OrdersFilter(),
		"receivables": c.ReceivablesFilter(),
		"activities":  c.ActivitiesFilter(),
		"routes":      c.RoutesFilter(),
		"visits":      c.VisitsFilter(),
	}
}

func TestAdminFiltersAreUnrestricted(t *testing.T) {
	for entity, f := range allFilters(adminCtx()) {
		assert.Empty(t, f.Fragment, entity)
		assert.Empty(t, f.Binds, entity)
		assert.True(t, f.IsUnrestricted(), entity)
	}
}

func TestLeadsFilter(t *testing.T) {
	t.Run("salesperson sees own authored leads", func(t *testing.T) {
		f := salespersonCtx().LeadsFilter()

		assert.Equal(t, "AND l.CODUSUARIO = :userId", f.Fragment)
		assert.Equal(t, map[string]any{"userId": int64(42)}, f.Binds)
	})

	t.Run("manager sees leads authored by users bound to team reps", func(t *testing.T) {
		f := managerCtx().LeadsFilter()

		assert.Contains(t, f.Fragment, "l.CODUSUARIO IN (SELECT uv.CODUSUARIO FROM AD_USUARIOSVENDAS uv")
		assert.Contains(t, f.Fragment, "uv.CODVEND IN (3,4,5)")
		assert.Contains(t, f.Fragment, "uv.ID_EMPRESA = :idEmpresa")
		assert.Equal(t, map[string]any{"idEmpresa": int64(1)}, f.Binds)
	})

	t.Run("unbound user still restricted to own authorship", func(t *testing.T) {
		f := unboundCtx().LeadsFilter()

		assert.Equal(t, "AND l.CODUSUARIO = :userId", f.Fragment)
	})
}

func TestActivitiesFilter(t *testing.T) {
	t.Run("salesperson", func(t *testing.T) {
		f := salespersonCtx().ActivitiesFilter()
		assert.Equal(t, "AND a.CODUSUARIO = :userId", f.Fragment)
	})

	t.Run("manager uses rep-to-user subquery", func(t *testing.T) {
		f := managerCtx().ActivitiesFilter()
		assert.Contains(t, f.Fragment, "a.CODUSUARIO IN (SELECT uv.CODUSUARIO")
		assert.Contains(t, f.Fragment, "(3,4,5)")
	})
}

func TestPartnersFilter(t *testing.T) {
	t.Run("salesperson restricted to own rep", func(t *testing.T) {
		f := salespersonCtx().PartnersFilter()

		assert.Equal(t, "AND CODVEND = :codVendedor", f.Fragment)
		assert.Equal(t, map[string]any{"codVendedor": int64(7)}, f.Binds)
	})

	t.Run("manager restricted to self plus team", func(t *testing.T) {
		f := managerCtx().PartnersFilter()

		assert.Equal(t, "AND CODVEND IN (3,4,5)", f.Fragment)
		assert.Empty(t, f.Binds)
	})

	t.Run("unbound fails closed", func(t *testing.T) {
		assert.True(t, unboundCtx().PartnersFilter().IsNoAccess())
	})
}

func TestOrdersFilter(t *testing.T) {
	t.Run("salesperson goes through current partner snapshot", func(t *testing.T) {
		f := salespersonCtx().OrdersFilter()

		assert.Contains(t, f.Fragment, "EXISTS (SELECT 1 FROM AS_PARCEIROS p")
		assert.Contains(t, f.Fragment, "p.CODPARC = cab.CODPARC")
		assert.Contains(t, f.Fragment, "p.ID_SISTEMA = cab.ID_SISTEMA")
		assert.Contains(t, f.Fragment, "p.SANKHYA_ATUAL = 'S'")
		assert.Contains(t, f.Fragment, "p.CODVEND = :codVend")
		assert.Equal(t, map[string]any{"codVend": int64(7)}, f.Binds)
	})

	t.Run("manager snapshot membership", func(t *testing.T) {
		f := managerCtx().OrdersFilter()

		assert.Contains(t, f.Fragment, "p.CODVEND IN (3,4,5)")
		assert.Empty(t, f.Binds)
	})

	t.Run("unbound fails closed", func(t *testing.T) {
		assert.True(t, unboundCtx().OrdersFilter().IsNoAccess())
	})
}

func TestReceivablesFilter(t *testing.T) {
	f := salespersonCtx().ReceivablesFilter()

	assert.Contains(t, f.Fragment, "p.CODPARC = F.CODPARC")
	assert.Contains(t, f.Fragment, "p.ID_SISTEMA = F.ID_SISTEMA")
	assert.Contains(t, f.Fragment, "p.CODVEND = :codVend")

	assert.True(t, unboundCtx().ReceivablesFilter().IsNoAccess())
}

func TestRoutesFilter(t *testing.T) {
	t.Run("salesperson", func(t *testing.T) {
		f := salespersonCtx().RoutesFilter()

		assert.Equal(t, "AND r.CODVEND = :codVend", f.Fragment)
		assert.Equal(t, map[string]any{"codVend": int64(7)}, f.Binds)
	})

	t.Run("manager rep set includes self", func(t *testing.T) {
		f := managerCtx().RoutesFilter()

		assert.Equal(t, "AND r.CODVEND IN (3,4,5)", f.Fragment)
		assert.Empty(t, f.Binds)
	})

	t.Run("unbound fails closed", func(t *testing.T) {
		assert.True(t, unboundCtx().RoutesFilter().IsNoAccess())
	})
}

func TestVisitsFilter(t *testing.T) {
	f := salespersonCtx().VisitsFilter()
	assert.Equal(t, "AND v.CODVEND = :codVend", f.Fragment)

	f = managerCtx().VisitsFilter()
	assert.Equal(t, "AND v.CODVEND IN (3,4,5)", f.Fragment)

	assert.True(t, unboundCtx().VisitsFilter().IsNoAccess())
}

// Every rep-owned and partner-derived filter must exclude all rows for a
// malformed context, never fall open.
func TestFailClosedLaw(t *testing.T) {
	c := unboundCtx()
	for entity, f := range map[string]ScopeFilter{
		"partners":    c.PartnersFilter(),
		"orders":      c.OrdersFilter(),
		"receivables": c.ReceivablesFilter(),
		"routes":      c.RoutesFilter(),
		"visits":      c.VisitsFilter(),
	} {
		assert.True(t, f.IsNoAccess(), entity)
		assert.False(t, f.IsUnrestricted(), entity)
	}
}

func TestInRepList(t *testing.T) {
	assert.Equal(t, "7", inRepList([]int64{7}))
	assert.Equal(t, "3,4,5", inRepList([]int64{3, 4, 5}))
	assert.Equal(t, "", inRepList(nil))
}

func TestFilterDeterminism(t *testing.T) {
	c := managerCtx()
	first := c.RoutesFilter()
	second := c.RoutesFilter()

	assert.Equal(t, first.Fragment, second.Fragment)
	assert.Equal(t, first.Binds, second.Binds)
}
