package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/login/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

type LoginRepo struct {
	db database.Querier
}

func NewLoginRepo(db database.Querier) *LoginRepo {
	return &LoginRepo{db: db}
}

const qUpsertLogin = `INSERT INTO login_details
	(user_id, login_time, refresh_token, token_expiry_date, host_name, ip_address)
  VALUES (:user_id, :login_time, :refresh_token, :token_expiry_date, :host_name, :ip_address)
  ON CONFLICT (user_id) DO UPDATE SET
	login_time = EXCLUDED.login_time,
	refresh_token = EXCLUDED.refresh_token,
	token_expiry_date = EXCLUDED.token_expiry_date,
	host_name = EXCLUDED.host_name,
	ip_address = EXCLUDED.ip_address`

// Upsert replaces the user's login session row.
func (r *LoginRepo) Upsert(ctx context.Context, s entity.Session) error {
	_, err := r.db.Insert(ctx, qUpsertLogin, s)
	return err
}
