package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// OrderRepository reads sales order headers from AS_PEDIDOS (alias
// cab, matching the alias the orders scope filter correlates on).
type OrderRepository struct {
	db oracle.Executor
}

func NewOrderRepository(db oracle.Executor) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `cab.NUNOTA, cab.ID_SISTEMA, cab.CODPARC, p.NOMEPARC, cab.DTNEG, cab.VLRNOTA, cab.STATUS`

const orderFrom = `
FROM AS_PEDIDOS cab
LEFT JOIN AS_PARCEIROS p
  ON p.CODPARC = cab.CODPARC
 AND p.ID_SISTEMA = cab.ID_SISTEMA
 AND p.SANKHYA_ATUAL = 'S'`

func (r *OrderRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter, q trade.ListQuery) ([]trade.Order, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s%s WHERE cab.ID_SISTEMA = :idEmpresa", orderColumns, orderFrom)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}
	if q.PartnerID != nil {
		sb.WriteString(" AND cab.CODPARC = :codParc")
		binds["codParc"] = *q.PartnerID
	}
	if q.IssuedFrom != nil {
		sb.WriteString(" AND cab.DTNEG >= :dtInicio")
		binds["dtInicio"] = *q.IssuedFrom
	}
	if q.IssuedTo != nil {
		sb.WriteString(" AND cab.DTNEG <= :dtFim")
		binds["dtFim"] = *q.IssuedTo
	}
	sb.WriteString(" ORDER BY cab.DTNEG DESC, cab.NUNOTA DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []trade.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) FindByID(ctx context.Context, companyID, orderID int64, scope access.ScopeFilter) (*trade.Order, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s%s WHERE cab.ID_SISTEMA = :idEmpresa AND cab.NUNOTA = :nunota", orderColumns, orderFrom)
	binds := oracle.Binds{"idEmpresa": companyID, "nunota": orderID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, sb.String(), binds.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

func scanOrder(row rowScanner) (*trade.Order, error) {
	var (
		o           trade.Order
		partnerName sql.NullString
		issuedAt    sql.NullTime
		status      sql.NullString
	)
	if err := row.Scan(&o.ID, &o.CompanyID, &o.PartnerID, &partnerName, &issuedAt, &o.Total, &status); err != nil {
		return nil, err
	}
	o.PartnerName = partnerName.String
	if issuedAt.Valid {
		o.IssuedAt = &issuedAt.Time
	}
	o.Status = status.String
	return &o, nil
}
