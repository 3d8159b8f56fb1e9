package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/identity/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

func newRepoWithMock(t *testing.T) (*IdentityRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewIdentityRepo(database.NewDataAccess(sqlx.NewDb(db, "postgres"))), mock
}

func TestFind_MobilePath(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_master WHERE prim_mobile_no = $1`)).
		WithArgs("9123456789").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "prim_mobile_no"}).AddRow("U100234", "9123456789"))

	id, _ := entity.ParseIdentifier("9123456789")
	got, err := repo.Find(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "U100234", got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_UserIDPath(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_master WHERE user_id = $1`)).
		WithArgs("U100234").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "prim_mobile_no"}).AddRow("U100234", "9123456789"))

	id, _ := entity.ParseIdentifier("U100234")
	got, err := repo.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "9123456789", got.MobileNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_NoRows(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM user_master`).WillReturnRows(sqlmock.NewRows([]string{"user_id", "prim_mobile_no"}))

	got, err := repo.Find(context.Background(), entity.Identifier{Kind: entity.KindUserID, Value: "ghost"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) AS user_count FROM user_master\s+WHERE user_id = \$1 OR prim_mobile_no = \$2`).
		WithArgs("9123456789", "9123456789").
		WillReturnRows(sqlmock.NewRows([]string{"user_count"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), "9123456789")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("db down"))

	_, err := repo.Exists(context.Background(), "U1")
	assert.True(t, apperr.Is(err, apperr.KindDataAccess))
}
