package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
)

type fakeUsers struct{ user *User }

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, nil
}

type fakeBindings struct{ binding *domain.Binding }

func (f *fakeBindings) FindBinding(_ context.Context, _, _ int64) (*domain.Binding, error) {
	if f.binding == nil {
		return nil, domain.ErrUserNotFound
	}
	return f.binding, nil
}

func (f *fakeBindings) ListTeamRepIDs(_ context.Context, _, _ int64) ([]int64, error) {
	return nil, nil
}

type fakeRevoker struct{ revoked []string }

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	f.revoked = append(f.revoked, tokenID)
	return nil
}

func testJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		Expiration: time.Hour,
		Issuer:     "test",
	})
}

func activeUser(t *testing.T) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{ID: 42, CompanyID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: string(hash), Status: StatusActive}
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials issue a token with the role label", func(t *testing.T) {
		rep := int64(7)
		svc := NewService(
			&fakeUsers{user: activeUser(t)},
			&fakeBindings{binding: &domain.Binding{UserID: 42, FunctionLabel: "Vendedor", SalesRepID: &rep}},
			testJWT(), &fakeRevoker{}, zap.NewNop(),
		)

		sess, err := svc.Login(context.Background(), "ana@example.com", "secret123")
		require.NoError(t, err)

		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, "Vendedor", sess.RoleLabel)
		assert.Equal(t, int64(42), sess.UserID)

		claims, err := testJWT().ValidateToken(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "Vendedor", claims.RoleLabel)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		svc := NewService(&fakeUsers{user: activeUser(t)}, &fakeBindings{}, testJWT(), &fakeRevoker{}, zap.NewNop())

		_, errEmail := svc.Login(context.Background(), "nobody@example.com", "secret123")
		_, errPass := svc.Login(context.Background(), "ana@example.com", "wrong")

		assert.ErrorIs(t, errEmail, shared.ErrUnauthorized)
		assert.ErrorIs(t, errPass, shared.ErrUnauthorized)
	})

	t.Run("blocked user cannot log in", func(t *testing.T) {
		u := activeUser(t)
		u.Status = StatusBlocked
		svc := NewService(&fakeUsers{user: u}, &fakeBindings{}, testJWT(), &fakeRevoker{}, zap.NewNop())

		_, err := svc.Login(context.Background(), "ana@example.com", "secret123")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("user without binding logs in with empty role label", func(t *testing.T) {
		svc := NewService(&fakeUsers{user: activeUser(t)}, &fakeBindings{}, testJWT(), &fakeRevoker{}, zap.NewNop())

		sess, err := svc.Login(context.Background(), "ana@example.com", "secret123")
		require.NoError(t, err)
		assert.Empty(t, sess.RoleLabel)
	})
}

func TestLogout(t *testing.T) {
	revoker := &fakeRevoker{}
	svc := NewService(&fakeUsers{}, &fakeBindings{}, testJWT(), revoker, zap.NewNop())

	_, claims, err := testJWT().GenerateToken(42, 1, "Vendedor")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.Equal(t, []string{claims.ID}, revoker.revoked)
}
