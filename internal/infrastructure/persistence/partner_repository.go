package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/application/partner"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// PartnerRepository reads current partner snapshots from AS_PARCEIROS.
// The partners scope filter references CODVEND without an alias, so
// these queries select from the table unaliased.
type PartnerRepository struct {
	db oracle.Executor
}

func NewPartnerRepository(db oracle.Executor) *PartnerRepository {
	return &PartnerRepository{db: db}
}

const partnerColumns = `CODPARC, ID_SISTEMA, NOMEPARC, ENDERECO, CIDADE, UF, CODVEND, ATIVO`

func (r *PartnerRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter, search string) ([]partner.Partner, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM AS_PARCEIROS WHERE ID_SISTEMA = :idEmpresa AND SANKHYA_ATUAL = 'S' AND ATIVO = 'S'", partnerColumns)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}
	if search != "" {
		sb.WriteString(" AND UPPER(NOMEPARC) LIKE '%' || UPPER(:search) || '%'")
		binds["search"] = search
	}
	sb.WriteString(" ORDER BY NOMEPARC")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []partner.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, *p)
	}
	return partners, rows.Err()
}

func (r *PartnerRepository) FindByID(ctx context.Context, companyID, partnerID int64, scope access.ScopeFilter) (*partner.Partner, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM AS_PARCEIROS WHERE ID_SISTEMA = :idEmpresa AND SANKHYA_ATUAL = 'S' AND CODPARC = :codParc", partnerColumns)
	binds := oracle.Binds{"idEmpresa": companyID, "codParc": partnerID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}

	p, err := scanPartner(r.db.QueryRowContext(ctx, sb.String(), binds.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find partner: %w", err)
	}
	return p, nil
}

func scanPartner(row rowScanner) (*partner.Partner, error) {
	var (
		p        partner.Partner
		endereco sql.NullString
		cidade   sql.NullString
		uf       sql.NullString
		codVend  sql.NullInt64
		ativo    string
	)
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &endereco, &cidade, &uf, &codVend, &ativo); err != nil {
		return nil, err
	}
	p.Address = endereco.String
	p.City = cidade.String
	p.State = uf.String
	if codVend.Valid {
		p.RepID = &codVend.Int64
	}
	p.Active = ativo == "S"
	return &p, nil
}
