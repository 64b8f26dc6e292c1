package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// BindingRepository reads the user-to-sales-rep binding from the ERP
// tables. AD_USUARIOSVENDAS links an app user to a rep, AS_VENDEDORES
// carries the rep type and manager linkage on its current snapshot row.
type BindingRepository struct {
	db oracle.Executor
}

func NewBindingRepository(db oracle.Executor) *BindingRepository {
	return &BindingRepository{db: db}
}

const findBindingQuery = `
SELECT uv.CODUSUARIO, uv.FUNCAO, uv.CODVEND, vd.TIPVEND, vd.CODGER
FROM AD_USUARIOSVENDAS uv
LEFT JOIN AS_VENDEDORES vd
  ON vd.CODVEND = uv.CODVEND
 AND vd.ID_SISTEMA = :idEmpresa
 AND vd.SANKHYA_ATUAL = 'S'
WHERE uv.CODUSUARIO = :userId
  AND uv.ID_EMPRESA = :idEmpresa`

func (r *BindingRepository) FindBinding(ctx context.Context, userID, companyID int64) (*access.Binding, error) {
	binds := oracle.Binds{"userId": userID, "idEmpresa": companyID}

	var (
		b       access.Binding
		funcao  sql.NullString
		codVend sql.NullInt64
		tipVend sql.NullString
		codGer  sql.NullInt64
	)
	row := r.db.QueryRowContext(ctx, findBindingQuery, binds.Args()...)
	if err := row.Scan(&b.UserID, &funcao, &codVend, &tipVend, &codGer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, access.ErrUserNotFound
		}
		return nil, fmt.Errorf("find sales-user binding: %w", err)
	}

	b.FunctionLabel = funcao.String
	if codVend.Valid {
		b.SalesRepID = &codVend.Int64
	}
	b.RepType = tipVend.String
	if codGer.Valid {
		b.ManagerRepID = &codGer.Int64
	}
	return &b, nil
}

const listTeamQuery = `
SELECT CODVEND
FROM AS_VENDEDORES
WHERE CODGER = :codGer
  AND ID_SISTEMA = :idEmpresa
  AND SANKHYA_ATUAL = 'S'
  AND ATIVO = 'S'
ORDER BY CODVEND`

// ListTeamRepIDs returns the active reps managed by the given rep,
// ascending by rep id. The manager's own id is not included here.
func (r *BindingRepository) ListTeamRepIDs(ctx context.Context, managerRepID, companyID int64) ([]int64, error) {
	binds := oracle.Binds{"codGer": managerRepID, "idEmpresa": companyID}

	rows, err := r.db.QueryContext(ctx, listTeamQuery, binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list team reps: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team rep: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
