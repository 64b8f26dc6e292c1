package route

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
)

type fakeRouteRepo struct {
	routes        map[int64]*Route
	lastInsert    RouteInput
	replacedStops []StopInput
	deleted       []int64
}

func newFakeRouteRepo(routes ...*Route) *fakeRouteRepo {
	r := &fakeRouteRepo{routes: map[int64]*Route{}}
	for _, rt := range routes {
		r.routes[rt.ID] = rt
	}
	return r
}

func (r *fakeRouteRepo) List(context.Context, int64, access.ScopeFilter) ([]Route, error) {
	var out []Route
	for _, rt := range r.routes {
		out = append(out, *rt)
	}
	return out, nil
}

func (r *fakeRouteRepo) FindByID(_ context.Context, _ int64, routeID int64, scope access.ScopeFilter) (*Route, error) {
	if scope.IsNoAccess() {
		return nil, nil
	}
	rt, ok := r.routes[routeID]
	if !ok {
		return nil, nil
	}
	return rt, nil
}

func (r *fakeRouteRepo) Insert(_ context.Context, _ int64, in RouteInput) (int64, error) {
	r.lastInsert = in
	return 55, nil
}

func (r *fakeRouteRepo) Update(_ context.Context, _ int64, routeID int64, in RouteInput) error {
	r.routes[routeID].Description = in.Description
	return nil
}

func (r *fakeRouteRepo) ReplaceStops(_ context.Context, _ int64, stops []StopInput) error {
	r.replacedStops = stops
	return nil
}

func (r *fakeRouteRepo) SoftDelete(_ context.Context, _ int64, routeID int64) error {
	r.deleted = append(r.deleted, routeID)
	return nil
}

type fakeVisitRepo struct {
	visits      map[int64]*Visit
	checkins    []CheckInInput
	checkedOut  []int64
	cancelNotes []string
}

func newFakeVisitRepo(visits ...*Visit) *fakeVisitRepo {
	r := &fakeVisitRepo{visits: map[int64]*Visit{}}
	for _, v := range visits {
		r.visits[v.ID] = v
	}
	return r
}

func (r *fakeVisitRepo) List(context.Context, int64, access.ScopeFilter, VisitQuery) ([]Visit, error) {
	return nil, nil
}

func (r *fakeVisitRepo) FindByID(_ context.Context, _ int64, visitID int64, scope access.ScopeFilter) (*Visit, error) {
	if scope.IsNoAccess() {
		return nil, nil
	}
	v, ok := r.visits[visitID]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (r *fakeVisitRepo) InsertCheckIn(_ context.Context, _ int64, _ int64, in CheckInInput) (int64, error) {
	r.checkins = append(r.checkins, in)
	return 77, nil
}

func (r *fakeVisitRepo) UpdateCheckOut(_ context.Context, _ int64, visitID int64, _ CheckOutInput) error {
	r.checkedOut = append(r.checkedOut, visitID)
	r.visits[visitID].Status = VisitDone
	return nil
}

func (r *fakeVisitRepo) Cancel(_ context.Context, _ int64, visitID int64, note string) error {
	r.cancelNotes = append(r.cancelNotes, note)
	r.visits[visitID].Status = VisitCancelled
	return nil
}

func repCtx(rep int64) *access.Context {
	return &access.Context{UserID: 42, CompanyID: 1, Role: access.RoleSalesperson, SalesRepID: &rep}
}

func adminCtx() *access.Context {
	return access.AdminContext(1, 1)
}

func newTestService(routes *fakeRouteRepo, visits *fakeVisitRepo) *Service {
	return NewService(routes, visits, zap.NewNop())
}

func TestCreateRoute(t *testing.T) {
	t.Run("defaults to the caller's rep", func(t *testing.T) {
		routes := newFakeRouteRepo()
		svc := newTestService(routes, newFakeVisitRepo())

		id, err := svc.CreateRoute(context.Background(), repCtx(7), RouteInput{Description: "Rota Centro"})
		require.NoError(t, err)
		assert.Equal(t, int64(55), id)
		require.NotNil(t, routes.lastInsert.RepID)
		assert.Equal(t, int64(7), *routes.lastInsert.RepID)
	})

	t.Run("admin without a rep must name one", func(t *testing.T) {
		svc := newTestService(newFakeRouteRepo(), newFakeVisitRepo())
		_, err := svc.CreateRoute(context.Background(), adminCtx(), RouteInput{Description: "Rota Centro"})
		assert.ErrorIs(t, err, access.ErrUnboundUser)
	})

	t.Run("description is required", func(t *testing.T) {
		svc := newTestService(newFakeRouteRepo(), newFakeVisitRepo())
		_, err := svc.CreateRoute(context.Background(), repCtx(7), RouteInput{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestUpdateRouteReplacesStopsOnlyWhenGiven(t *testing.T) {
	routes := newFakeRouteRepo(&Route{ID: 5, CompanyID: 1, Description: "Rota Centro", RepID: 7})
	svc := newTestService(routes, newFakeVisitRepo())

	require.NoError(t, svc.UpdateRoute(context.Background(), repCtx(7), 5, RouteInput{Description: "Rota Norte"}))
	assert.Nil(t, routes.replacedStops)

	stops := []StopInput{{PartnerID: 900, Order: 1}}
	require.NoError(t, svc.UpdateRoute(context.Background(), repCtx(7), 5, RouteInput{Description: "Rota Norte", Stops: stops}))
	assert.Equal(t, stops, routes.replacedStops)
}

func TestDeleteRouteIsAdminOnly(t *testing.T) {
	routes := newFakeRouteRepo(&Route{ID: 5, CompanyID: 1, RepID: 7})
	svc := newTestService(routes, newFakeVisitRepo())

	err := svc.DeleteRoute(context.Background(), repCtx(7), 5)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, routes.deleted)

	require.NoError(t, svc.DeleteRoute(context.Background(), adminCtx(), 5))
	assert.Equal(t, []int64{5}, routes.deleted)
}

func TestCheckIn(t *testing.T) {
	t.Run("requires a bound rep", func(t *testing.T) {
		svc := newTestService(newFakeRouteRepo(), newFakeVisitRepo())
		ac := &access.Context{UserID: 42, CompanyID: 1, Role: access.RoleOther}
		_, err := svc.CheckIn(context.Background(), ac, CheckInInput{PartnerID: 900})
		assert.ErrorIs(t, err, access.ErrUnboundUser)
	})

	t.Run("opens a visit for the caller's rep", func(t *testing.T) {
		visits := newFakeVisitRepo()
		svc := newTestService(newFakeRouteRepo(), visits)

		id, err := svc.CheckIn(context.Background(), repCtx(7), CheckInInput{PartnerID: 900})
		require.NoError(t, err)
		assert.Equal(t, int64(77), id)
		require.Len(t, visits.checkins, 1)
	})
}

func TestCheckOut(t *testing.T) {
	t.Run("only an open visit can close", func(t *testing.T) {
		visits := newFakeVisitRepo(&Visit{ID: 77, CompanyID: 1, RepID: 7, Status: VisitDone})
		svc := newTestService(newFakeRouteRepo(), visits)

		err := svc.CheckOut(context.Background(), repCtx(7), 77, CheckOutInput{})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("closes an open visit", func(t *testing.T) {
		visits := newFakeVisitRepo(&Visit{ID: 77, CompanyID: 1, RepID: 7, Status: VisitCheckedIn})
		svc := newTestService(newFakeRouteRepo(), visits)

		require.NoError(t, svc.CheckOut(context.Background(), repCtx(7), 77, CheckOutInput{}))
		assert.Equal(t, []int64{77}, visits.checkedOut)
	})

	t.Run("unbound caller cannot close", func(t *testing.T) {
		visits := newFakeVisitRepo(&Visit{ID: 77, CompanyID: 1, RepID: 9, Status: VisitCheckedIn})
		svc := newTestService(newFakeRouteRepo(), visits)

		ac := &access.Context{UserID: 42, CompanyID: 1, Role: access.RoleOther}
		err := svc.CheckOut(context.Background(), ac, 77, CheckOutInput{})
		assert.ErrorIs(t, err, access.ErrUnboundUser)
	})
}

func TestCancelDefaultsNote(t *testing.T) {
	visits := newFakeVisitRepo(&Visit{ID: 77, CompanyID: 1, RepID: 7, Status: VisitCheckedIn})
	svc := newTestService(newFakeRouteRepo(), visits)

	require.NoError(t, svc.Cancel(context.Background(), repCtx(7), 77, ""))
	assert.Equal(t, []string{"Visita cancelada"}, visits.cancelNotes)
}
