package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/application/identity"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// UserRepository reads login accounts from AD_USUARIOS.
type UserRepository struct {
	db oracle.Executor
}

func NewUserRepository(db oracle.Executor) *UserRepository {
	return &UserRepository{db: db}
}

const findUserByEmailQuery = `
SELECT CODUSUARIO, ID_EMPRESA, NOME, EMAIL, SENHA, STATUS, AVATAR
FROM AD_USUARIOS
WHERE LOWER(EMAIL) = LOWER(:email)`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	binds := oracle.Binds{"email": email}

	var (
		u      identity.User
		avatar sql.NullString
	)
	row := r.db.QueryRowContext(ctx, findUserByEmailQuery, binds.Args()...)
	if err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	u.Avatar = avatar.String
	return &u, nil
}
