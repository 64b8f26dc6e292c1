package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func repID(id int64) *int64 { return &id }

func TestContextEffectiveRepIDs(t *testing.T) {
	t.Run("salesperson is self only", func(t *testing.T) {
		ctx := &Context{SalesRepID: repID(7)}
		assert.Equal(t, []int64{7}, ctx.EffectiveRepIDs())
	})

	t.Run("manager includes team after self", func(t *testing.T) {
		ctx := &Context{SalesRepID: repID(3), TeamRepIDs: []int64{4, 5}}
		assert.Equal(t, []int64{3, 4, 5}, ctx.EffectiveRepIDs())
	})

	t.Run("no bound rep yields nil", func(t *testing.T) {
		ctx := &Context{}
		assert.Nil(t, ctx.EffectiveRepIDs())
	})
}

func TestContextPredicates(t *testing.T) {
	t.Run("manager requires a non-empty team", func(t *testing.T) {
		assert.False(t, (&Context{SalesRepID: repID(3)}).IsManager())
		assert.True(t, (&Context{SalesRepID: repID(3), TeamRepIDs: []int64{4}}).IsManager())
	})

	t.Run("create requires admin or bound rep", func(t *testing.T) {
		assert.True(t, (&Context{IsAdmin: true}).CanCreateOrEdit())
		assert.True(t, (&Context{SalesRepID: repID(7)}).CanCreateOrEdit())
		assert.False(t, (&Context{Role: RoleOther}).CanCreateOrEdit())
	})
}

func TestAdminContext(t *testing.T) {
	ctx := AdminContext(42, 1)

	assert.True(t, ctx.IsAdmin)
	assert.Equal(t, RoleAdministrator, ctx.Role)
	assert.Equal(t, int64(42), ctx.UserID)
	assert.Equal(t, int64(1), ctx.CompanyID)
	assert.Nil(t, ctx.SalesRepID)
	assert.Empty(t, ctx.TeamRepIDs)
}
