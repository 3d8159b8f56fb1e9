package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/credential/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

// PasswordRepo reads and writes password_history.
type PasswordRepo struct {
	db database.Querier
}

func NewPasswordRepo(db database.Querier) *PasswordRepo { return &PasswordRepo{db: db} }

const (
	qUpsertPassword = `INSERT INTO password_history
		(user_id, password_hash, entry_date, pwd_last_update, host_name, ip_address)
	  VALUES (:user_id, :password_hash, :pwd_last_update, :pwd_last_update, :host_name, :ip_address)
	  ON CONFLICT (user_id) DO UPDATE SET
		password_hash = EXCLUDED.password_hash,
		pwd_last_update = EXCLUDED.pwd_last_update,
		host_name = EXCLUDED.host_name,
		ip_address = EXCLUDED.ip_address
	  RETURNING (xmax = 0) AS inserted`

	qLatestPassword = `SELECT user_id, password_hash, pwd_last_update,
		COALESCE(host_name, '') AS host_name, COALESCE(ip_address, '') AS ip_address
	  FROM password_history WHERE user_id = :user_id
	  ORDER BY pwd_last_update DESC LIMIT 1`
)

// Upsert overwrites the user's password row, inserting it if absent. It
// reports whether a new row was created.
func (r *PasswordRepo) Upsert(ctx context.Context, rec entity.PasswordRecord) (bool, error) {
	var rows []struct {
		Inserted bool `db:"inserted"`
	}
	if err := r.db.SelectInto(ctx, &rows, qUpsertPassword, rec); err != nil {
		return false, err
	}
	return len(rows) > 0 && rows[0].Inserted, nil
}

// Latest returns the most recently updated record, or nil.
func (r *PasswordRepo) Latest(ctx context.Context, userID string) (*entity.PasswordRecord, error) {
	var rows []entity.PasswordRecord
	if err := r.db.SelectInto(ctx, &rows, qLatestPassword, map[string]any{"user_id": userID}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
