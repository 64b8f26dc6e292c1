package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/domain/permission"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// PermissionRepository reads the app-owned ACL tables. Boolean flags
// are stored as 'S'/'N' characters following the ERP convention.
type PermissionRepository struct {
	db oracle.Executor
}

func NewPermissionRepository(db oracle.Executor) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func flagToBool(s string) bool { return s == "S" }

const findOverrideQuery = `
SELECT PERMISSION_KEY, ALLOWED, DATA_SCOPE
FROM AD_ACL_USER_RULES
WHERE CODUSUARIO = :userId
  AND ID_EMPRESA = :idEmpresa
  AND PERMISSION_KEY = :permKey`

func (r *PermissionRepository) FindOverride(ctx context.Context, userID, companyID int64, key string) (*permission.Override, error) {
	binds := oracle.Binds{"userId": userID, "idEmpresa": companyID, "permKey": key}

	var (
		ov      permission.Override
		allowed string
		scope   sql.NullString
	)
	row := r.db.QueryRowContext(ctx, findOverrideQuery, binds.Args()...)
	if err := row.Scan(&ov.Key, &allowed, &scope); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find permission override: %w", err)
	}
	ov.Allowed = flagToBool(allowed)
	ov.DataScope = permission.DataScope(scope.String)
	return &ov, nil
}

const findDefinitionQuery = `
SELECT PERMISSION_KEY, CATEGORY, DEFAULT_ADMIN, DEFAULT_GERENTE, DEFAULT_VENDEDOR
FROM AD_ACL_PERMISSION_DEFS
WHERE PERMISSION_KEY = :permKey`

func (r *PermissionRepository) FindDefinition(ctx context.Context, key string) (*permission.Definition, error) {
	binds := oracle.Binds{"permKey": key}

	def, err := scanDefinition(r.db.QueryRowContext(ctx, findDefinitionQuery, binds.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find permission definition: %w", err)
	}
	return def, nil
}

const listDefinitionsQuery = `
SELECT PERMISSION_KEY, CATEGORY, DEFAULT_ADMIN, DEFAULT_GERENTE, DEFAULT_VENDEDOR
FROM AD_ACL_PERMISSION_DEFS
ORDER BY PERMISSION_KEY`

func (r *PermissionRepository) ListDefinitions(ctx context.Context) ([]permission.Definition, error) {
	rows, err := r.db.QueryContext(ctx, listDefinitionsQuery)
	if err != nil {
		return nil, fmt.Errorf("list permission definitions: %w", err)
	}
	defer rows.Close()

	var defs []permission.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission definition: %w", err)
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

const listOverridesQuery = `
SELECT PERMISSION_KEY, ALLOWED, DATA_SCOPE
FROM AD_ACL_USER_RULES
WHERE CODUSUARIO = :userId
  AND ID_EMPRESA = :idEmpresa`

func (r *PermissionRepository) ListOverrides(ctx context.Context, userID, companyID int64) ([]permission.Override, error) {
	binds := oracle.Binds{"userId": userID, "idEmpresa": companyID}

	rows, err := r.db.QueryContext(ctx, listOverridesQuery, binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list permission overrides: %w", err)
	}
	defer rows.Close()

	var ovs []permission.Override
	for rows.Next() {
		var (
			ov      permission.Override
			allowed string
			scope   sql.NullString
		)
		if err := rows.Scan(&ov.Key, &allowed, &scope); err != nil {
			return nil, fmt.Errorf("scan permission override: %w", err)
		}
		ov.Allowed = flagToBool(allowed)
		ov.DataScope = permission.DataScope(scope.String)
		ovs = append(ovs, ov)
	}
	return ovs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*permission.Definition, error) {
	var (
		def     permission.Definition
		admin   string
		manager string
		seller  string
	)
	if err := row.Scan(&def.Key, &def.Category, &admin, &manager, &seller); err != nil {
		return nil, err
	}
	def.DefaultAdmin = flagToBool(admin)
	def.DefaultManager = flagToBool(manager)
	def.DefaultSalesperson = flagToBool(seller)
	return &def, nil
}
