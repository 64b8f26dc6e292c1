package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	domain "github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/permission"
)

type fakePerms struct {
	defs []permission.Definition
	ovs  []permission.Override
	err  error
}

func (f *fakePerms) FindOverride(_ context.Context, _, _ int64, key string) (*permission.Override, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.ovs {
		if f.ovs[i].Key == key {
			return &f.ovs[i], nil
		}
	}
	return nil, nil
}

func (f *fakePerms) FindDefinition(_ context.Context, key string) (*permission.Definition, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.defs {
		if f.defs[i].Key == key {
			return &f.defs[i], nil
		}
	}
	return nil, nil
}

func (f *fakePerms) ListDefinitions(_ context.Context) ([]permission.Definition, error) {
	return f.defs, f.err
}

func (f *fakePerms) ListOverrides(_ context.Context, _, _ int64) ([]permission.Override, error) {
	return f.ovs, f.err
}

func sellerCtx() *domain.Context {
	rep := int64(7)
	return &domain.Context{UserID: 42, CompanyID: 1, Role: domain.RoleSalesperson, SalesRepID: &rep}
}

func testCatalog(f *fakePerms) *PermissionCatalog {
	return NewPermissionCatalog(f, zap.NewNop())
}

func TestCheckPermission(t *testing.T) {
	f := &fakePerms{
		defs: []permission.Definition{
			{Key: "FEATURE_IA", Category: permission.CategoryFeature, DefaultAdmin: true, DefaultManager: true},
			{Key: "DATA_LEADS", Category: permission.CategoryData, DefaultAdmin: true, DefaultManager: true, DefaultSalesperson: true},
		},
		ovs: []permission.Override{
			{Key: "FEATURE_IA", Allowed: true},
		},
	}
	c := testCatalog(f)

	t.Run("override beats role default", func(t *testing.T) {
		d := c.CheckPermission(context.Background(), sellerCtx(), "FEATURE_IA")
		assert.True(t, d.Allowed)
	})

	t.Run("role default applies without override", func(t *testing.T) {
		d := c.CheckPermission(context.Background(), sellerCtx(), "DATA_LEADS")
		assert.True(t, d.Allowed)
		assert.Equal(t, permission.ScopeOwn, d.DataScope)
	})

	t.Run("unknown key denies", func(t *testing.T) {
		assert.False(t, c.CheckPermission(context.Background(), sellerCtx(), "PAGE_NOPE").Allowed)
	})

	t.Run("query failure denies instead of erroring", func(t *testing.T) {
		broken := testCatalog(&fakePerms{err: errors.New("ORA-00942")})
		d := broken.CheckPermission(context.Background(), sellerCtx(), "DATA_LEADS")
		assert.False(t, d.Allowed)
	})
}

func TestPrefixSugar(t *testing.T) {
	f := &fakePerms{defs: []permission.Definition{
		{Key: "PAGE_ROTAS", Category: permission.CategoryPage, DefaultSalesperson: true},
		{Key: "FEATURE_IA", Category: permission.CategoryFeature},
		{Key: "DATA_LEADS", Category: permission.CategoryData, DefaultSalesperson: true},
	}}
	c := testCatalog(f)
	ctx := context.Background()

	assert.True(t, c.CanAccessPage(ctx, sellerCtx(), "ROTAS"))
	assert.True(t, c.CanAccessPage(ctx, sellerCtx(), "PAGE_ROTAS"))
	assert.False(t, c.CanUseFeature(ctx, sellerCtx(), "IA"))
	assert.Equal(t, permission.ScopeOwn, c.GetDataScope(ctx, sellerCtx(), "LEADS"))
}

func TestGetDataScopeDefaultsToOwn(t *testing.T) {
	c := testCatalog(&fakePerms{})
	assert.Equal(t, permission.ScopeOwn, c.GetDataScope(context.Background(), sellerCtx(), "UNKNOWN"))
}

// The bulk map must agree with single checks for every key involved.
func TestGetAllUserPermissionsMatchesSingleChecks(t *testing.T) {
	f := &fakePerms{
		defs: []permission.Definition{
			{Key: "PAGE_ROTAS", Category: permission.CategoryPage, DefaultAdmin: true, DefaultManager: true, DefaultSalesperson: true},
			{Key: "FEATURE_IA", Category: permission.CategoryFeature, DefaultAdmin: true},
			{Key: "DATA_LEADS", Category: permission.CategoryData, DefaultAdmin: true, DefaultManager: true, DefaultSalesperson: true},
		},
		ovs: []permission.Override{
			{Key: "FEATURE_IA", Allowed: true},
			{Key: "FEATURE_EXPERIMENTAL", Allowed: true}, // no definition row
		},
	}
	c := testCatalog(f)
	ctx := context.Background()
	ac := sellerCtx()

	all := c.GetAllUserPermissions(ctx, ac)

	assert.Len(t, all, 4)
	for key, want := range all {
		assert.Equal(t, want, c.CheckPermission(ctx, ac, key), key)
	}
}

func TestGetAllUserPermissionsFailClosed(t *testing.T) {
	c := testCatalog(&fakePerms{err: errors.New("connection reset")})
	assert.Empty(t, c.GetAllUserPermissions(context.Background(), sellerCtx()))
}
