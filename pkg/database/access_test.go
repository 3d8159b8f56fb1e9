package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

func newMockAccess(t *testing.T) (*DataAccess, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDataAccess(sqlx.NewDb(db, "postgres")), mock
}

func TestSelect_MapsRows(t *testing.T) {
	da, mock := newMockAccess(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, prim_mobile_no FROM user_master WHERE user_id = $1`)).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "prim_mobile_no"}).AddRow([]byte("U1"), "9123456789"))

	rows, err := da.Select(context.Background(),
		`SELECT user_id, prim_mobile_no FROM user_master WHERE user_id = :user_id`,
		map[string]any{"user_id": "U1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "U1", rows[0]["user_id"])
	assert.Equal(t, "9123456789", rows[0]["prim_mobile_no"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_EmptyResultIsNotNil(t *testing.T) {
	da, mock := newMockAccess(t)

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	rows, err := da.Select(context.Background(), `SELECT user_id FROM user_master`, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSelect_QueryErrorIsDataAccess(t *testing.T) {
	da, mock := newMockAccess(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("db down"))

	_, err := da.Select(context.Background(), `SELECT 1`, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDataAccess))
	assert.Contains(t, err.Error(), "db down")
}

func TestUpdate_ReportsAffectedRows(t *testing.T) {
	da, mock := newMockAccess(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE user_otp_details SET status = 'VERIFIED' WHERE user_id = $1 AND status = 'PENDING'`)).
		WithArgs("U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := da.Update(context.Background(),
		`UPDATE user_otp_details SET status = 'VERIFIED' WHERE user_id = :user_id AND status = 'PENDING'`,
		map[string]any{"user_id": "U1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.EqualValues(t, 1, res.Affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ExecErrorIsDataAccess(t *testing.T) {
	da, mock := newMockAccess(t)

	mock.ExpectExec(`INSERT`).WillReturnError(errors.New("constraint"))

	res, err := da.Insert(context.Background(), `INSERT INTO t (a) VALUES (:a)`, map[string]any{"a": 1})
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.True(t, apperr.Is(err, apperr.KindDataAccess))
}

func TestBind_EmptyQuery(t *testing.T) {
	da, _ := newMockAccess(t)

	_, err := da.Insert(context.Background(), "", nil)
	assert.True(t, apperr.Is(err, apperr.KindDataAccess))
}

func TestSelectInto_ScansStructs(t *testing.T) {
	da, mock := newMockAccess(t)

	mock.ExpectQuery(`SELECT user_id FROM user_master`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("U1").AddRow("U2"))

	var out []struct {
		UserID string `db:"user_id"`
	}
	require.NoError(t, da.SelectInto(context.Background(), &out, `SELECT user_id FROM user_master`, nil))
	require.Len(t, out, 2)
	assert.Equal(t, "U2", out[1].UserID)
}

func TestMigrate_UsesEmbeddedDir(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, "migrations", gotDir)

	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestMigrate_WrapsError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error { return errors.New("boom") }
	err := Migrate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate: boom")
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'Asia/Kolkata'", quoteLiteral("Asia/Kolkata"))
	assert.Equal(t, `'it\'s'`, quoteLiteral("it's"))
}

func TestWithRuntimeParams(t *testing.T) {
	params := map[string]string{"timezone": "Asia/Kolkata", "client_encoding": "UTF8"}

	got, err := withRuntimeParams("postgres://u:p@localhost:5432/auth?sslmode=disable", params)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/auth?client_encoding=UTF8&sslmode=disable&timezone=Asia%2FKolkata", got)

	got, err = withRuntimeParams("host=localhost dbname=auth", params)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost dbname=auth client_encoding='UTF8' timezone='Asia/Kolkata'", got)

	got, err = withRuntimeParams("host=localhost", nil)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost", got)
}
