package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// ActivityRepository stores lead timeline entries in
// AD_ADLEADSATIVIDADES (alias a).
type ActivityRepository struct {
	db oracle.Executor
}

func NewActivityRepository(db oracle.Executor) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `a.CODATIVIDADE, a.CODLEAD, a.ID_EMPRESA, a.TIPO, a.TITULO,
a.DESCRICAO, a.DATA_INICIO, a.DATA_FIM, a.CODUSUARIO,
a.DADOS_COMPLEMENTARES, a.COR, a.ORDEM, a.ATIVO, a.STATUS, a.DATA_CRIACAO`

func (r *ActivityRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter, q lead.ActivityQuery) ([]lead.Activity, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM AD_ADLEADSATIVIDADES a WHERE a.ID_EMPRESA = :idEmpresa AND a.ATIVO = 'S'", activityColumns)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}
	if q.LeadID != nil {
		sb.WriteString(" AND a.CODLEAD = :codLead")
		binds["codLead"] = *q.LeadID
	}
	if q.StartFrom != nil {
		sb.WriteString(" AND a.DATA_INICIO >= :startFrom")
		binds["startFrom"] = *q.StartFrom
	}
	if q.StartTo != nil {
		sb.WriteString(" AND a.DATA_INICIO < :startTo")
		binds["startTo"] = *q.StartTo
	}
	sb.WriteString(" ORDER BY a.ORDEM DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []lead.Activity
	for rows.Next() {
		var (
			a         lead.Activity
			actLead   sql.NullInt64
			descricao sql.NullString
			startsAt  sql.NullTime
			endsAt    sql.NullTime
			userID    sql.NullInt64
			extra     sql.NullString
			color     sql.NullString
			ativo     string
			status    sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&a.ID, &actLead, &a.CompanyID, &a.Type, &a.Title,
			&descricao, &startsAt, &endsAt, &userID,
			&extra, &color, &a.Order, &ativo, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if actLead.Valid {
			a.LeadID = &actLead.Int64
		}
		a.Description = descricao.String
		if startsAt.Valid {
			a.StartsAt = &startsAt.Time
		}
		if endsAt.Valid {
			a.EndsAt = &endsAt.Time
		}
		if userID.Valid {
			a.UserID = &userID.Int64
		}
		a.Extra = extra.String
		a.Color = color.String
		a.Active = ativo == "S"
		a.Status = status.String
		if createdAt.Valid {
			a.CreatedAt = &createdAt.Time
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

const nextOrderByLeadQuery = `
SELECT NVL(MAX(ORDEM), 0) + 1
FROM AD_ADLEADSATIVIDADES
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa`

const nextOrderQuery = `
SELECT NVL(MAX(ORDEM), 0) + 1
FROM AD_ADLEADSATIVIDADES
WHERE ID_EMPRESA = :idEmpresa`

func (r *ActivityRepository) NextOrder(ctx context.Context, companyID int64, leadID *int64) (int64, error) {
	query := nextOrderQuery
	binds := oracle.Binds{"idEmpresa": companyID}
	if leadID != nil {
		query = nextOrderByLeadQuery
		binds["codLead"] = *leadID
	}

	var next int64
	if err := r.db.QueryRowContext(ctx, query, binds.Args()...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next activity order: %w", err)
	}
	return next, nil
}

const insertActivityQuery = `
INSERT INTO AD_ADLEADSATIVIDADES (
  CODLEAD, ID_EMPRESA, TIPO, TITULO, DESCRICAO, DATA_HORA,
  DATA_INICIO, DATA_FIM, CODUSUARIO, DADOS_COMPLEMENTARES,
  COR, ORDEM, ATIVO, STATUS, DATA_CRIACAO
) VALUES (
  :codLead, :idEmpresa, :tipo, :titulo, :descricao, SYSTIMESTAMP,
  :dataInicio, :dataFim, :codUsuario, :dadosComplementares,
  :cor, :ordem, 'S', :status, SYSTIMESTAMP
)`

func (r *ActivityRepository) Insert(ctx context.Context, companyID int64, a lead.Activity) error {
	binds := oracle.Binds{
		"codLead":             nullInt(a.LeadID),
		"idEmpresa":           companyID,
		"tipo":                a.Type,
		"titulo":              a.Title,
		"descricao":           nullString(a.Description),
		"dataInicio":          nullTime(a.StartsAt),
		"dataFim":             nullTime(a.EndsAt),
		"codUsuario":          nullInt(a.UserID),
		"dadosComplementares": nullString(a.Extra),
		"cor":                 a.Color,
		"ordem":               a.Order,
		"status":              a.Status,
	}
	if _, err := r.db.ExecContext(ctx, insertActivityQuery, binds.Args()...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

const updateActivityStatusQuery = `
UPDATE AD_ADLEADSATIVIDADES
SET STATUS = :status
WHERE CODATIVIDADE = :codAtividade
  AND ID_EMPRESA = :idEmpresa`

func (r *ActivityRepository) UpdateStatus(ctx context.Context, companyID, activityID int64, status string) error {
	binds := oracle.Binds{"status": status, "codAtividade": activityID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, updateActivityStatusQuery, binds.Args()...); err != nil {
		return fmt.Errorf("update activity status: %w", err)
	}
	return nil
}
