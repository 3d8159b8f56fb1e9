package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/credential/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

func newRepoWithMock(t *testing.T) (*PasswordRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPasswordRepo(database.NewDataAccess(sqlx.NewDb(db, "postgres"))), mock
}

func TestUpsert_ReportsInsert(t *testing.T) {
	for _, inserted := range []bool{true, false} {
		repo, mock := newRepoWithMock(t)
		at := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`(?s)INSERT INTO password_history.*ON CONFLICT \(user_id\).*RETURNING \(xmax = 0\) AS inserted`).
			WithArgs("U1", "$2a$hash", at, at, "node-1", "10.0.0.7").
			WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(inserted))

		got, err := repo.Upsert(context.Background(), entity.PasswordRecord{
			UserID: "U1", PasswordHash: "$2a$hash", LastUpdate: at, HostName: "node-1", IPAddress: "10.0.0.7",
		})
		require.NoError(t, err)
		assert.Equal(t, inserted, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestLatest(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	at := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY pwd_last_update DESC LIMIT 1`)).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "password_hash", "pwd_last_update", "host_name", "ip_address"}).
			AddRow("U1", "$2a$hash", at, "node-1", "10.0.0.7"))

	got, err := repo.Latest(context.Background(), "U1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$hash", got.PasswordHash)
}

func TestLatest_None(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM password_history`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "password_hash", "pwd_last_update", "host_name", "ip_address"}))

	got, err := repo.Latest(context.Background(), "U1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
