package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/domain/access"
)

var leadCols = []string{
	"CODLEAD", "ID_EMPRESA", "NOME", "DESCRICAO", "VALOR",
	"CODESTAGIO", "CODFUNIL", "DATA_VENCIMENTO", "TIPO_TAG", "COR_TAG",
	"CODPARC", "CODUSUARIO", "ATIVO", "DATA_CRIACAO", "DATA_ATUALIZACAO",
	"STATUS_LEAD", "MOTIVO_PERDA", "DATA_CONCLUSAO",
}

func leadRow(rows *sqlmock.Rows, id int64, name string, userID int64) *sqlmock.Rows {
	return rows.AddRow(id, 1, name, nil, "1500.50",
		2, 1, nil, nil, "#3b82f6",
		nil, userID, "S", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), nil,
		"EM_ANDAMENTO", nil, nil)
}

func managerScope() access.ScopeFilter {
	rep := int64(3)
	c := &access.Context{UserID: 10, CompanyID: 1, Role: access.RoleManager, SalesRepID: &rep, TeamRepIDs: []int64{4, 5}}
	return c.LeadsFilter()
}

func sellerScope() access.ScopeFilter {
	rep := int64(7)
	c := &access.Context{UserID: 42, CompanyID: 1, Role: access.RoleSalesperson, SalesRepID: &rep}
	return c.LeadsFilter()
}

func TestLeadList(t *testing.T) {
	t.Run("manager scope merges the team subquery into the statement", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("uv.CODVEND IN (3,4,5)")).
			WithArgs(sql.Named("idEmpresa", int64(1))).
			WillReturnRows(leadRow(sqlmock.NewRows(leadCols), 121, "Expansão MG", 11))

		leads, err := NewLeadRepository(db).List(context.Background(), 1, managerScope(), lead.ListQuery{})
		require.NoError(t, err)

		require.Len(t, leads, 1)
		assert.Equal(t, int64(121), leads[0].ID)
		assert.Equal(t, "Expansão MG", leads[0].Name)
		assert.True(t, leads[0].Value.Equal(decimal.RequireFromString("1500.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list filters bind alongside the scope", func(t *testing.T) {
		db, mock := newMockDB(t)
		funnel := int64(9)
		mock.ExpectQuery(regexp.QuoteMeta("AND l.CODFUNIL = :codFunil")).
			WithArgs(sql.Named("codFunil", int64(9)), sql.Named("idEmpresa", int64(1)), sql.Named("userId", int64(42))).
			WillReturnRows(sqlmock.NewRows(leadCols))

		_, err := NewLeadRepository(db).List(context.Background(), 1, sellerScope(), lead.ListQuery{FunnelID: &funnel})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeadFindByID(t *testing.T) {
	t.Run("out-of-scope lead reads as absent", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("AND l.CODUSUARIO = :userId")).
			WithArgs(sql.Named("codLead", int64(121)), sql.Named("idEmpresa", int64(1)), sql.Named("userId", int64(42))).
			WillReturnError(sql.ErrNoRows)

		l, err := NewLeadRepository(db).FindByID(context.Background(), 1, 121, sellerScope())
		require.NoError(t, err)
		assert.Nil(t, l)
	})
}

func TestLeadValueRecomputeQueries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT NVL(SUM(VLRTOTAL), 0)")).
		WithArgs(sql.Named("codLead", int64(121)), sql.Named("idEmpresa", int64(1))).
		WillReturnRows(sqlmock.NewRows([]string{"TOTAL"}).AddRow("2750.00"))

	total, err := repo.SumActiveProducts(context.Background(), 1, 121)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("2750.00")))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE AD_LEADS\nSET VALOR = :valor")).
		WithArgs(sql.Named("codLead", int64(121)), sql.Named("idEmpresa", int64(1)), sql.Named("valor", total)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetValue(context.Background(), 1, 121, total))
	assert.NoError(t, mock.ExpectationsWereMet())
}
