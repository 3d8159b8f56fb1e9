package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/otp/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

// SessionRepo stores OTP sessions in user_otp_details.
type SessionRepo struct {
	db database.Querier
}

func NewSessionRepo(db database.Querier) *SessionRepo { return &SessionRepo{db: db} }

const (
	qGetSession = `SELECT user_id, COALESCE(user_otp, '') AS user_otp,
		COALESCE(refresh_token, '') AS refresh_token, token_expiry_date, status,
		COALESCE(host_name, '') AS host_name, COALESCE(ip_address, '') AS ip_address
	  FROM user_otp_details WHERE user_id = :user_id`

	qUpsertSession = `INSERT INTO user_otp_details
		(user_id, user_otp, refresh_token, token_expiry_date, status, host_name, ip_address)
	  VALUES (:user_id, :user_otp, :refresh_token, :token_expiry_date, :status, :host_name, :ip_address)
	  ON CONFLICT (user_id) DO UPDATE SET
		user_otp = EXCLUDED.user_otp,
		refresh_token = EXCLUDED.refresh_token,
		token_expiry_date = EXCLUDED.token_expiry_date,
		status = EXCLUDED.status,
		host_name = EXCLUDED.host_name,
		ip_address = EXCLUDED.ip_address`

	qMarkVerified = `UPDATE user_otp_details SET status = :verified
	  WHERE user_id = :user_id AND status = :pending`
)

// Get returns the session for userID, or nil when none exists.
func (r *SessionRepo) Get(ctx context.Context, userID string) (*entity.Session, error) {
	var rows []entity.Session
	if err := r.db.SelectInto(ctx, &rows, qGetSession, map[string]any{"user_id": userID}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Upsert writes s as the only session for its user in one statement.
func (r *SessionRepo) Upsert(ctx context.Context, s entity.Session) error {
	_, err := r.db.Insert(ctx, qUpsertSession, s)
	return err
}

// MarkVerified flips a PENDING session to VERIFIED and returns the number of
// rows changed. Zero means the row was already verified or does not exist.
func (r *SessionRepo) MarkVerified(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.Update(ctx, qMarkVerified, map[string]any{
		"user_id":  userID,
		"verified": string(entity.StatusVerified),
		"pending":  string(entity.StatusPending),
	})
	if err != nil {
		return 0, err
	}
	return res.Affected, nil
}
