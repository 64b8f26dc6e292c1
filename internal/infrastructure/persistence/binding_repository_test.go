package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/domain/access"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestFindBinding(t *testing.T) {
	cols := []string{"CODUSUARIO", "FUNCAO", "CODVEND", "TIPVEND", "CODGER"}

	t.Run("manager binding", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(findBindingQuery)).
			WithArgs(sql.Named("idEmpresa", int64(1)), sql.Named("userId", int64(10))).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(10, "Gerente", 3, "G", nil))

		b, err := NewBindingRepository(db).FindBinding(context.Background(), 10, 1)
		require.NoError(t, err)

		assert.Equal(t, int64(10), b.UserID)
		assert.Equal(t, "Gerente", b.FunctionLabel)
		require.NotNil(t, b.SalesRepID)
		assert.Equal(t, int64(3), *b.SalesRepID)
		assert.Equal(t, "G", b.RepType)
		assert.Nil(t, b.ManagerRepID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unbound user has nil rep", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(findBindingQuery)).
			WithArgs(sql.Named("idEmpresa", int64(1)), sql.Named("userId", int64(99))).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(99, "Usuário", nil, nil, nil))

		b, err := NewBindingRepository(db).FindBinding(context.Background(), 99, 1)
		require.NoError(t, err)

		assert.Nil(t, b.SalesRepID)
		assert.Empty(t, b.RepType)
	})

	t.Run("missing row maps to user not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(findBindingQuery)).
			WithArgs(sql.Named("idEmpresa", int64(1)), sql.Named("userId", int64(7))).
			WillReturnError(sql.ErrNoRows)

		_, err := NewBindingRepository(db).FindBinding(context.Background(), 7, 1)
		assert.ErrorIs(t, err, access.ErrUserNotFound)
	})
}

func TestListTeamRepIDs(t *testing.T) {
	t.Run("returns ids in query order", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(listTeamQuery)).
			WithArgs(sql.Named("codGer", int64(3)), sql.Named("idEmpresa", int64(1))).
			WillReturnRows(sqlmock.NewRows([]string{"CODVEND"}).AddRow(4).AddRow(5))

		ids, err := NewBindingRepository(db).ListTeamRepIDs(context.Background(), 3, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 5}, ids)
	})

	t.Run("empty team", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(listTeamQuery)).
			WithArgs(sql.Named("codGer", int64(8)), sql.Named("idEmpresa", int64(1))).
			WillReturnRows(sqlmock.NewRows([]string{"CODVEND"}))

		ids, err := NewBindingRepository(db).ListTeamRepIDs(context.Background(), 8, 1)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
