package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/crm/backend/internal/domain/access"
)

type fakeBindings struct {
	binding    *domain.Binding
	bindingErr error
	team       []int64
	teamErr    error

	bindingCalls int
	teamCalls    int
}

func (f *fakeBindings) FindBinding(_ context.Context, _, _ int64) (*domain.Binding, error) {
	f.bindingCalls++
	return f.binding, f.bindingErr
}

func (f *fakeBindings) ListTeamRepIDs(_ context.Context, _, _ int64) ([]int64, error) {
	f.teamCalls++
	return f.team, f.teamErr
}

func repID(id int64) *int64 { return &id }

func TestResolve(t *testing.T) {
	t.Run("missing binding fails with user not found", func(t *testing.T) {
		f := &fakeBindings{bindingErr: domain.ErrUserNotFound}
		_, err := NewResolver(f, zap.NewNop()).Resolve(context.Background(), 7, 1)

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("admin label short-circuits team lookup", func(t *testing.T) {
		f := &fakeBindings{binding: &domain.Binding{UserID: 1, FunctionLabel: "Administrador", SalesRepID: repID(9)}}
		ac, err := NewResolver(f, zap.NewNop()).Resolve(context.Background(), 1, 1)
		require.NoError(t, err)

		assert.True(t, ac.IsAdmin)
		assert.Equal(t, domain.RoleAdministrator, ac.Role)
		assert.Empty(t, ac.TeamRepIDs)
		assert.Zero(t, f.teamCalls)
	})

	t.Run("non-admin without rep fails closed", func(t *testing.T) {
		f := &fakeBindings{binding: &domain.Binding{UserID: 99, FunctionLabel: "Vendedor"}}
		_, err := NewResolver(f, zap.NewNop()).Resolve(context.Background(), 99, 1)

		assert.ErrorIs(t, err, domain.ErrUnboundUser)
	})

	t.Run("salesperson gets own rep and no team", func(t *testing.T) {
		f := &fakeBindings{binding: &domain.Binding{
			UserID: 42, FunctionLabel: "Vendedor", SalesRepID: repID(7), RepType: domain.RepTypeIndividual,
		}}
		ac, err := NewResolver(f, zap.NewNop()).Resolve(context.Background(), 42, 1)
		require.NoError(t, err)

		assert.False(t, ac.IsAdmin)
		assert.Equal(t, domain.RoleSalesperson, ac.Role)
		assert.Equal(t, []int64{7}, ac.EffectiveRepIDs())
		assert.Zero(t, f.teamCalls)
	})

	t.Run("manager rep type loads the team", func(t *testing.T) {
		f := &fakeBindings{
			binding: &domain.Binding{UserID: 10, FunctionLabel: "Gerente", SalesRepID: repID(3), RepType: domain.RepTypeManager},
			team:    []int64{4, 5},
		}
		ac, err := NewResolver(f, zap.NewNop()).Resolve(context.Background(), 10, 1)
		require.NoError(t, err)

		assert.True(t, ac.IsManager())
		assert.Equal(t, []int64{3, 4, 5}, ac.EffectiveRepIDs())
		assert.Equal(t, 1, f.teamCalls)
	})

	t.Run("team query failure propagates", func(t *testing.T) {
		f := &fakeBindings{
			binding: &domain.Binding{UserID: 10, FunctionLabel: "Gerente", SalesRepID: repID(3), RepType: domain.RepTypeManager},
			teamErr: errors.New("ORA-00942"),
		}
		_, err := NewResolver(f, zap.NewNop()).Resolve(context.Background(), 10, 1)

		assert.Error(t, err)
	})

	t.Run("resolving twice yields equal contexts", func(t *testing.T) {
		f := &fakeBindings{
			binding: &domain.Binding{UserID: 10, FunctionLabel: "Gerente", SalesRepID: repID(3), RepType: domain.RepTypeManager},
			team:    []int64{4, 5},
		}
		r := NewResolver(f, zap.NewNop())

		first, err := r.Resolve(context.Background(), 10, 1)
		require.NoError(t, err)
		second, err := r.Resolve(context.Background(), 10, 1)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestResolveFromClaims(t *testing.T) {
	t.Run("admin claims never touch the database", func(t *testing.T) {
		f := &fakeBindings{bindingErr: errors.New("must not be called")}
		ac, err := NewResolver(f, zap.NewNop()).ResolveFromClaims(context.Background(), 1, 1, "ADMIN")
		require.NoError(t, err)

		assert.True(t, ac.IsAdmin)
		assert.Nil(t, ac.SalesRepID)
		assert.Zero(t, f.bindingCalls)
	})

	t.Run("non-admin claims resolve from the binding", func(t *testing.T) {
		f := &fakeBindings{binding: &domain.Binding{
			UserID: 42, FunctionLabel: "Vendedor", SalesRepID: repID(7), RepType: domain.RepTypeIndividual,
		}}
		ac, err := NewResolver(f, zap.NewNop()).ResolveFromClaims(context.Background(), 42, 1, "Vendedor")
		require.NoError(t, err)

		assert.Equal(t, domain.RoleSalesperson, ac.Role)
		assert.Equal(t, 1, f.bindingCalls)
	})
}
