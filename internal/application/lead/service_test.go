package lead

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
)

type fakeLeadRepo struct {
	leads    map[int64]*Lead
	products map[int64][]Product

	lastScope access.ScopeFilter
}

func newFakeLeadRepo(leads ...*Lead) *fakeLeadRepo {
	r := &fakeLeadRepo{leads: map[int64]*Lead{}, products: map[int64][]Product{}}
	for _, l := range leads {
		r.leads[l.ID] = l
	}
	return r
}

func (r *fakeLeadRepo) List(_ context.Context, _ int64, scope access.ScopeFilter, _ ListQuery) ([]Lead, error) {
	r.lastScope = scope
	var out []Lead
	for _, l := range r.leads {
		out = append(out, *l)
	}
	return out, nil
}

// FindByID honors the scope the way the real repository does: a
// no-access filter hides every row.
func (r *fakeLeadRepo) FindByID(_ context.Context, _ int64, leadID int64, scope access.ScopeFilter) (*Lead, error) {
	r.lastScope = scope
	if scope.IsNoAccess() {
		return nil, nil
	}
	l, ok := r.leads[leadID]
	if !ok {
		return nil, nil
	}
	return l, nil
}

func (r *fakeLeadRepo) Insert(_ context.Context, companyID int64, createdBy *int64, in CreateInput) (*Lead, error) {
	l := &Lead{ID: int64(len(r.leads) + 1), CompanyID: companyID, Name: in.Name, CreatedBy: createdBy, Active: true, Status: StatusInProgress}
	r.leads[l.ID] = l
	return l, nil
}

func (r *fakeLeadRepo) Update(_ context.Context, _ int64, leadID int64, in CreateInput) (*Lead, error) {
	l := r.leads[leadID]
	l.Name = in.Name
	return l, nil
}

func (r *fakeLeadRepo) UpdateStage(_ context.Context, _ int64, leadID, stageID int64) error {
	r.leads[leadID].StageID = &stageID
	return nil
}

func (r *fakeLeadRepo) SoftDelete(_ context.Context, _ int64, leadID int64) error {
	r.leads[leadID].Active = false
	return nil
}

func (r *fakeLeadRepo) ListProducts(_ context.Context, _ int64, leadID int64) ([]Product, error) {
	return r.products[leadID], nil
}

func (r *fakeLeadRepo) InsertProduct(_ context.Context, _ int64, leadID int64, in AddProductInput) error {
	r.products[leadID] = append(r.products[leadID], Product{
		ItemID:    int64(len(r.products[leadID]) + 1),
		LeadID:    leadID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Total:     in.Quantity.Mul(in.UnitPrice),
		Active:    true,
	})
	return nil
}

func (r *fakeLeadRepo) DeactivateProduct(_ context.Context, _ int64, itemID int64) error {
	for leadID, items := range r.products {
		for i := range items {
			if items[i].ItemID == itemID {
				r.products[leadID][i].Active = false
			}
		}
	}
	return nil
}

func (r *fakeLeadRepo) SumActiveProducts(_ context.Context, _ int64, leadID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.products[leadID] {
		if p.Active {
			total = total.Add(p.Total)
		}
	}
	return total, nil
}

func (r *fakeLeadRepo) SetValue(_ context.Context, _ int64, leadID int64, value decimal.Decimal) error {
	r.leads[leadID].Value = value
	return nil
}

type fakeActivityRepo struct {
	inserted  []Activity
	nextOrder int64
}

func (r *fakeActivityRepo) List(context.Context, int64, access.ScopeFilter, ActivityQuery) ([]Activity, error) {
	return nil, nil
}

func (r *fakeActivityRepo) NextOrder(context.Context, int64, *int64) (int64, error) {
	r.nextOrder++
	return r.nextOrder, nil
}

func (r *fakeActivityRepo) Insert(_ context.Context, _ int64, a Activity) error {
	r.inserted = append(r.inserted, a)
	return nil
}

func (r *fakeActivityRepo) UpdateStatus(context.Context, int64, int64, string) error {
	return nil
}

func sellerCtx(rep int64) *access.Context {
	return &access.Context{UserID: 42, CompanyID: 1, Role: access.RoleSalesperson, SalesRepID: &rep}
}

func unboundCtx() *access.Context {
	return &access.Context{UserID: 42, CompanyID: 1, Role: access.RoleOther}
}

func newTestService(leads *fakeLeadRepo, activities *fakeActivityRepo) *Service {
	return NewService(leads, activities, zap.NewNop())
}

func TestCreate(t *testing.T) {
	t.Run("unbound user cannot create", func(t *testing.T) {
		svc := newTestService(newFakeLeadRepo(), &fakeActivityRepo{})
		_, err := svc.Create(context.Background(), unboundCtx(), CreateInput{Name: "Novo"})
		assert.ErrorIs(t, err, access.ErrUnboundUser)
	})

	t.Run("name is required", func(t *testing.T) {
		svc := newTestService(newFakeLeadRepo(), &fakeActivityRepo{})
		_, err := svc.Create(context.Background(), sellerCtx(7), CreateInput{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("records the author", func(t *testing.T) {
		svc := newTestService(newFakeLeadRepo(), &fakeActivityRepo{})
		l, err := svc.Create(context.Background(), sellerCtx(7), CreateInput{Name: "Novo"})
		require.NoError(t, err)
		require.NotNil(t, l.CreatedBy)
		assert.Equal(t, int64(42), *l.CreatedBy)
	})
}

func TestUpdateHonorsScope(t *testing.T) {
	repo := newFakeLeadRepo(&Lead{ID: 121, CompanyID: 1, Name: "Expansão MG", Active: true})
	svc := newTestService(repo, &fakeActivityRepo{})

	// An unbound context never reaches the repository write path.
	_, err := svc.Update(context.Background(), unboundCtx(), 121, CreateInput{Name: "x"})
	assert.ErrorIs(t, err, access.ErrUnboundUser)

	l, err := svc.Update(context.Background(), sellerCtx(7), 121, CreateInput{Name: "Expansão Sul"})
	require.NoError(t, err)
	assert.Equal(t, "Expansão Sul", l.Name)
	assert.Equal(t, "AND l.CODUSUARIO = :userId", repo.lastScope.Fragment)
}

func TestUpdateMissingLeadIsNotFound(t *testing.T) {
	svc := newTestService(newFakeLeadRepo(), &fakeActivityRepo{})
	_, err := svc.Update(context.Background(), sellerCtx(7), 999, CreateInput{Name: "x"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductsRecomputeLeadValue(t *testing.T) {
	repo := newFakeLeadRepo(&Lead{ID: 121, CompanyID: 1, Name: "Expansão MG", Active: true})
	svc := newTestService(repo, &fakeActivityRepo{})
	ac := sellerCtx(7)

	require.NoError(t, svc.AddProduct(context.Background(), ac, 121, AddProductInput{
		ProductID: 9,
		Quantity:  decimal.NewFromInt(10),
		UnitPrice: decimal.RequireFromString("25.50"),
	}))
	assert.True(t, repo.leads[121].Value.Equal(decimal.RequireFromString("255.00")))

	total, err := svc.RemoveProduct(context.Background(), ac, 121, 1)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.True(t, repo.leads[121].Value.IsZero())
}

func TestCreateActivityStatus(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	newSvc := func(activities *fakeActivityRepo) *Service {
		svc := newTestService(newFakeLeadRepo(), activities)
		svc.now = func() time.Time { return now }
		return svc
	}

	t.Run("future start waits", func(t *testing.T) {
		activities := &fakeActivityRepo{}
		starts := now.Add(48 * time.Hour)
		a, err := newSvc(activities).CreateActivity(context.Background(), sellerCtx(7), CreateActivityInput{
			Type: "LIGACAO", Title: "Retorno", StartsAt: &starts,
		})
		require.NoError(t, err)
		assert.Equal(t, ActivityWaiting, a.Status)
	})

	t.Run("past start is born overdue", func(t *testing.T) {
		activities := &fakeActivityRepo{}
		starts := now.Add(-48 * time.Hour)
		a, err := newSvc(activities).CreateActivity(context.Background(), sellerCtx(7), CreateActivityInput{
			Type: "LIGACAO", Title: "Retorno", StartsAt: &starts,
		})
		require.NoError(t, err)
		assert.Equal(t, ActivityOverdue, a.Status)
	})

	t.Run("orders are assigned sequentially", func(t *testing.T) {
		activities := &fakeActivityRepo{}
		svc := newSvc(activities)
		first, err := svc.CreateActivity(context.Background(), sellerCtx(7), CreateActivityInput{Type: "NOTA", Title: "a"})
		require.NoError(t, err)
		second, err := svc.CreateActivity(context.Background(), sellerCtx(7), CreateActivityInput{Type: "NOTA", Title: "b"})
		require.NoError(t, err)
		assert.Equal(t, first.Order+1, second.Order)
	})
}

func TestUpdateActivityStatusValidation(t *testing.T) {
	svc := newTestService(newFakeLeadRepo(), &fakeActivityRepo{})
	err := svc.UpdateActivityStatus(context.Background(), sellerCtx(7), 1, "INVALIDO")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
