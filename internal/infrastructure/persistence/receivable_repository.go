package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/application/finance"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// ReceivableRepository reads installments from AS_FINANCEIRO (alias F,
// matching the alias the receivables scope filter correlates on).
type ReceivableRepository struct {
	db oracle.Executor
}

func NewReceivableRepository(db oracle.Executor) *ReceivableRepository {
	return &ReceivableRepository{db: db}
}

const receivableQueryHead = `
SELECT F.NUFIN, F.ID_SISTEMA, F.CODPARC, p.NOMEPARC, F.DTVENC, F.VLRDESDOB, F.DHBAIXA
FROM AS_FINANCEIRO F
LEFT JOIN AS_PARCEIROS p
  ON p.CODPARC = F.CODPARC
 AND p.ID_SISTEMA = F.ID_SISTEMA
 AND p.SANKHYA_ATUAL = 'S'
WHERE F.ID_SISTEMA = :idEmpresa`

func (r *ReceivableRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter, q finance.ListQuery) ([]finance.Receivable, error) {
	var sb strings.Builder
	sb.WriteString(receivableQueryHead)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}
	if q.PartnerID != nil {
		sb.WriteString(" AND F.CODPARC = :codParc")
		binds["codParc"] = *q.PartnerID
	}
	if q.DueFrom != nil {
		sb.WriteString(" AND F.DTVENC >= :dtVencInicio")
		binds["dtVencInicio"] = *q.DueFrom
	}
	if q.DueTo != nil {
		sb.WriteString(" AND F.DTVENC <= :dtVencFim")
		binds["dtVencFim"] = *q.DueTo
	}
	if q.OpenOnly {
		sb.WriteString(" AND F.DHBAIXA IS NULL")
	}
	sb.WriteString(" ORDER BY F.DTVENC, F.NUFIN")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	defer rows.Close()

	var receivables []finance.Receivable
	for rows.Next() {
		var (
			rec         finance.Receivable
			partnerName sql.NullString
			dueDate     sql.NullTime
			settledAt   sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.PartnerID, &partnerName, &dueDate, &rec.Amount, &settledAt); err != nil {
			return nil, fmt.Errorf("scan receivable: %w", err)
		}
		rec.PartnerName = partnerName.String
		if dueDate.Valid {
			rec.DueDate = &dueDate.Time
		}
		if settledAt.Valid {
			rec.SettledAt = &settledAt.Time
		}
		receivables = append(receivables, rec)
	}
	return receivables, rows.Err()
}
