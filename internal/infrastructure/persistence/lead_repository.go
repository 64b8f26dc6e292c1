package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// LeadRepository stores kanban leads in AD_LEADS (alias l) and their
// items in AD_ADLEADSPRODUTOS.
type LeadRepository struct {
	db oracle.Executor
}

func NewLeadRepository(db oracle.Executor) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `l.CODLEAD, l.ID_EMPRESA, l.NOME, l.DESCRICAO, l.VALOR,
l.CODESTAGIO, l.CODFUNIL, l.DATA_VENCIMENTO, l.TIPO_TAG, l.COR_TAG,
l.CODPARC, l.CODUSUARIO, l.ATIVO, l.DATA_CRIACAO, l.DATA_ATUALIZACAO,
l.STATUS_LEAD, l.MOTIVO_PERDA, l.DATA_CONCLUSAO`

func (r *LeadRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter, q lead.ListQuery) ([]lead.Lead, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM AD_LEADS l WHERE l.ID_EMPRESA = :idEmpresa AND l.ATIVO = 'S'", leadColumns)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}

	if q.FunnelID != nil {
		sb.WriteString(" AND l.CODFUNIL = :codFunil")
		binds["codFunil"] = *q.FunnelID
	}
	if q.PartnerID != nil {
		sb.WriteString(" AND l.CODPARC = :codParc")
		binds["codParc"] = *q.PartnerID
	}
	if q.CreatedFrom != nil {
		sb.WriteString(" AND l.DATA_CRIACAO >= :dataInicio")
		binds["dataInicio"] = *q.CreatedFrom
	}
	if q.CreatedTo != nil {
		sb.WriteString(" AND l.DATA_CRIACAO <= :dataFim")
		binds["dataFim"] = *q.CreatedTo
	}
	sb.WriteString(" ORDER BY l.DATA_CRIACAO DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, companyID, leadID int64, scope access.ScopeFilter) (*lead.Lead, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM AD_LEADS l WHERE l.ID_EMPRESA = :idEmpresa AND l.CODLEAD = :codLead", leadColumns)
	binds := oracle.Binds{"idEmpresa": companyID, "codLead": leadID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}

	l, err := scanLead(r.db.QueryRowContext(ctx, sb.String(), binds.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return l, nil
}

const insertLeadQuery = `
INSERT INTO AD_LEADS (
  ID_EMPRESA, NOME, DESCRICAO, VALOR, CODESTAGIO, CODFUNIL,
  DATA_VENCIMENTO, TIPO_TAG, COR_TAG, CODPARC, CODUSUARIO,
  ATIVO, STATUS_LEAD, DATA_CRIACAO
) VALUES (
  :idEmpresa, :nome, :descricao, :valor, :codEstagio, :codFunil,
  :dataVencimento, :tipoTag, :corTag, :codParc, :codUsuario,
  'S', 'EM_ANDAMENTO', SYSDATE
)`

const lastLeadQuery = `
SELECT CODLEAD
FROM AD_LEADS
WHERE ID_EMPRESA = :idEmpresa
ORDER BY CODLEAD DESC
FETCH FIRST 1 ROWS ONLY`

func (r *LeadRepository) Insert(ctx context.Context, companyID int64, createdBy *int64, in lead.CreateInput) (*lead.Lead, error) {
	binds := oracle.Binds{
		"idEmpresa":      companyID,
		"nome":           in.Name,
		"descricao":      nullString(in.Description),
		"valor":          in.Value,
		"codEstagio":     nullInt(in.StageID),
		"codFunil":       nullInt(in.FunnelID),
		"dataVencimento": nullTime(in.DueDate),
		"tipoTag":        nullString(in.TagType),
		"corTag":         tagColorOrDefault(in.TagColor),
		"codParc":        nullInt(in.PartnerID),
		"codUsuario":     nullInt(createdBy),
	}
	if _, err := r.db.ExecContext(ctx, insertLeadQuery, binds.Args()...); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	var id int64
	idBinds := oracle.Binds{"idEmpresa": companyID}
	if err := r.db.QueryRowContext(ctx, lastLeadQuery, idBinds.Args()...).Scan(&id); err != nil {
		return nil, fmt.Errorf("read inserted lead id: %w", err)
	}
	return r.FindByID(ctx, companyID, id, access.Unrestricted())
}

const updateLeadQuery = `
UPDATE AD_LEADS
SET NOME = :nome,
    DESCRICAO = :descricao,
    VALOR = :valor,
    CODESTAGIO = :codEstagio,
    CODFUNIL = :codFunil,
    DATA_VENCIMENTO = :dataVencimento,
    TIPO_TAG = :tipoTag,
    COR_TAG = :corTag,
    CODPARC = :codParc,
    DATA_ATUALIZACAO = SYSDATE
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa`

func (r *LeadRepository) Update(ctx context.Context, companyID, leadID int64, in lead.CreateInput) (*lead.Lead, error) {
	binds := oracle.Binds{
		"nome":           in.Name,
		"descricao":      nullString(in.Description),
		"valor":          in.Value,
		"codEstagio":     nullInt(in.StageID),
		"codFunil":       nullInt(in.FunnelID),
		"dataVencimento": nullTime(in.DueDate),
		"tipoTag":        nullString(in.TagType),
		"corTag":         tagColorOrDefault(in.TagColor),
		"codParc":        nullInt(in.PartnerID),
		"codLead":        leadID,
		"idEmpresa":      companyID,
	}
	if _, err := r.db.ExecContext(ctx, updateLeadQuery, binds.Args()...); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return r.FindByID(ctx, companyID, leadID, access.Unrestricted())
}

const updateLeadStageQuery = `
UPDATE AD_LEADS
SET CODESTAGIO = :codEstagio, DATA_ATUALIZACAO = SYSDATE
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa`

func (r *LeadRepository) UpdateStage(ctx context.Context, companyID, leadID, stageID int64) error {
	binds := oracle.Binds{"codEstagio": stageID, "codLead": leadID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, updateLeadStageQuery, binds.Args()...); err != nil {
		return fmt.Errorf("update lead stage: %w", err)
	}
	return nil
}

const softDeleteLeadQuery = `
UPDATE AD_LEADS
SET ATIVO = 'N'
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa`

func (r *LeadRepository) SoftDelete(ctx context.Context, companyID, leadID int64) error {
	binds := oracle.Binds{"codLead": leadID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, softDeleteLeadQuery, binds.Args()...); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

const listLeadProductsQuery = `
SELECT CODITEM, CODLEAD, ID_EMPRESA, CODPROD, DESCRPROD,
       QUANTIDADE, VLRUNIT, VLRTOTAL, ATIVO, DATA_INCLUSAO
FROM AD_ADLEADSPRODUTOS
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa
  AND ATIVO = 'S'
ORDER BY CODITEM`

func (r *LeadRepository) ListProducts(ctx context.Context, companyID, leadID int64) ([]lead.Product, error) {
	binds := oracle.Binds{"codLead": leadID, "idEmpresa": companyID}
	rows, err := r.db.QueryContext(ctx, listLeadProductsQuery, binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list lead products: %w", err)
	}
	defer rows.Close()

	var products []lead.Product
	for rows.Next() {
		var (
			p       lead.Product
			ativo   string
			addedAt sql.NullTime
		)
		if err := rows.Scan(&p.ItemID, &p.LeadID, &p.CompanyID, &p.ProductID, &p.Description,
			&p.Quantity, &p.UnitPrice, &p.Total, &ativo, &addedAt); err != nil {
			return nil, fmt.Errorf("scan lead product: %w", err)
		}
		p.Active = ativo == "S"
		if addedAt.Valid {
			p.AddedAt = &addedAt.Time
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const insertLeadProductQuery = `
INSERT INTO AD_ADLEADSPRODUTOS (
  CODLEAD, ID_EMPRESA, CODPROD, DESCRPROD, QUANTIDADE, VLRUNIT, VLRTOTAL, ATIVO, DATA_INCLUSAO
) VALUES (
  :codLead, :idEmpresa, :codProd, :descrProd, :quantidade, :vlrUnit, :vlrTotal, 'S', SYSDATE
)`

func (r *LeadRepository) InsertProduct(ctx context.Context, companyID, leadID int64, in lead.AddProductInput) error {
	binds := oracle.Binds{
		"codLead":    leadID,
		"idEmpresa":  companyID,
		"codProd":    in.ProductID,
		"descrProd":  in.Description,
		"quantidade": in.Quantity,
		"vlrUnit":    in.UnitPrice,
		"vlrTotal":   in.Quantity.Mul(in.UnitPrice),
	}
	if _, err := r.db.ExecContext(ctx, insertLeadProductQuery, binds.Args()...); err != nil {
		return fmt.Errorf("insert lead product: %w", err)
	}
	return nil
}

const deactivateLeadProductQuery = `
UPDATE AD_ADLEADSPRODUTOS
SET ATIVO = 'N'
WHERE CODITEM = :codItem
  AND ID_EMPRESA = :idEmpresa`

func (r *LeadRepository) DeactivateProduct(ctx context.Context, companyID, itemID int64) error {
	binds := oracle.Binds{"codItem": itemID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, deactivateLeadProductQuery, binds.Args()...); err != nil {
		return fmt.Errorf("deactivate lead product: %w", err)
	}
	return nil
}

const sumLeadProductsQuery = `
SELECT NVL(SUM(VLRTOTAL), 0)
FROM AD_ADLEADSPRODUTOS
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa
  AND ATIVO = 'S'`

func (r *LeadRepository) SumActiveProducts(ctx context.Context, companyID, leadID int64) (decimal.Decimal, error) {
	binds := oracle.Binds{"codLead": leadID, "idEmpresa": companyID}
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, sumLeadProductsQuery, binds.Args()...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum lead products: %w", err)
	}
	return total, nil
}

const setLeadValueQuery = `
UPDATE AD_LEADS
SET VALOR = :valor
WHERE CODLEAD = :codLead
  AND ID_EMPRESA = :idEmpresa`

func (r *LeadRepository) SetValue(ctx context.Context, companyID, leadID int64, value decimal.Decimal) error {
	binds := oracle.Binds{"valor": value, "codLead": leadID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, setLeadValueQuery, binds.Args()...); err != nil {
		return fmt.Errorf("set lead value: %w", err)
	}
	return nil
}

func scanLead(row rowScanner) (*lead.Lead, error) {
	var (
		l          lead.Lead
		descricao  sql.NullString
		stageID    sql.NullInt64
		funnelID   sql.NullInt64
		dueDate    sql.NullTime
		tagType    sql.NullString
		tagColor   sql.NullString
		partnerID  sql.NullInt64
		createdBy  sql.NullInt64
		ativo      string
		updatedAt  sql.NullTime
		status     sql.NullString
		lossReason sql.NullString
		closedAt   sql.NullTime
	)
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &descricao, &l.Value,
		&stageID, &funnelID, &dueDate, &tagType, &tagColor,
		&partnerID, &createdBy, &ativo, &l.CreatedAt, &updatedAt,
		&status, &lossReason, &closedAt)
	if err != nil {
		return nil, err
	}

	l.Description = descricao.String
	if stageID.Valid {
		l.StageID = &stageID.Int64
	}
	if funnelID.Valid {
		l.FunnelID = &funnelID.Int64
	}
	if dueDate.Valid {
		l.DueDate = &dueDate.Time
	}
	l.TagType = tagType.String
	l.TagColor = tagColor.String
	if partnerID.Valid {
		l.PartnerID = &partnerID.Int64
	}
	if createdBy.Valid {
		l.CreatedBy = &createdBy.Int64
	}
	l.Active = ativo == "S"
	if updatedAt.Valid {
		l.UpdatedAt = &updatedAt.Time
	}
	l.Status = status.String
	l.LossReason = lossReason.String
	if closedAt.Valid {
		l.ClosedAt = &closedAt.Time
	}
	return &l, nil
}

// defaultTagColor matches the color assigned to untagged kanban cards.
const defaultTagColor = "#3b82f6"

func tagColorOrDefault(color string) string {
	if color == "" {
		return defaultTagColor
	}
	return color
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
