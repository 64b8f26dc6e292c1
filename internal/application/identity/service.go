// Package identity handles login and logout: password verification
// against the app user table, token issuance, and token revocation.
package identity

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
)

// User statuses as stored in AD_USUARIOS.STATUS.
const (
	StatusActive  = "ativo"
	StatusBlocked = "bloqueado"
	StatusPending = "pendente"
)

// User is an application login account.
type User struct {
	ID           int64
	CompanyID    int64
	Name         string
	Email        string
	PasswordHash string
	Status       string
	Avatar       string
}

// UserRepository looks up login accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Revoker invalidates issued tokens until their natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    int64
	CompanyID int64
	Name      string
	Email     string
	RoleLabel string
}

// Service authenticates users and manages their tokens.
type Service struct {
	users    UserRepository
	bindings domain.BindingRepository
	tokens   *auth.JWTService
	revoker  Revoker
	log      *zap.Logger
}

func NewService(users UserRepository, bindings domain.BindingRepository, tokens *auth.JWTService, revoker Revoker, log *zap.Logger) *Service {
	return &Service{users: users, bindings: bindings, tokens: tokens, revoker: revoker, log: log}
}

// Login verifies the credentials and issues a token carrying the
// user's job-function label. A wrong email and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Status != StatusActive {
		return nil, shared.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrUnauthorized
	}

	roleLabel := ""
	if b, err := s.bindings.FindBinding(ctx, u.ID, u.CompanyID); err == nil {
		roleLabel = b.FunctionLabel
	}

	signed, claims, err := s.tokens.GenerateToken(u.ID, u.CompanyID, roleLabel)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.Int64("user_id", u.ID),
		zap.Int64("company_id", u.CompanyID),
		zap.String("role", roleLabel))

	return &Session{
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    u.ID,
		CompanyID: u.CompanyID,
		Name:      u.Name,
		Email:     u.Email,
		RoleLabel: roleLabel,
	}, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
