package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/identity/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

// IdentityRepo reads user ids and mobile numbers from user_master.
type IdentityRepo struct {
	db database.Querier
}

func NewIdentityRepo(db database.Querier) *IdentityRepo { return &IdentityRepo{db: db} }

const (
	qCountByEither = `SELECT COUNT(*) AS user_count FROM user_master
		WHERE user_id = :identifier OR prim_mobile_no = :identifier`
	qByMobile = `SELECT user_id, prim_mobile_no FROM user_master WHERE prim_mobile_no = :identifier`
	qByUserID = `SELECT user_id, prim_mobile_no FROM user_master WHERE user_id = :identifier`
)

// Exists matches value against both user id and mobile number.
func (r *IdentityRepo) Exists(ctx context.Context, value string) (bool, error) {
	rows, err := r.db.Select(ctx, qCountByEither, map[string]any{"identifier": value})
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	switch n := rows[0]["user_count"].(type) {
	case int64:
		return n > 0, nil
	case int:
		return n > 0, nil
	case string:
		return n != "" && n != "0", nil
	default:
		return false, nil
	}
}

// Find returns the matching identity, or nil when no row matches.
func (r *IdentityRepo) Find(ctx context.Context, id entity.Identifier) (*entity.Identity, error) {
	q := qByUserID
	if id.Kind == entity.KindMobile {
		q = qByMobile
	}
	var rows []entity.Identity
	if err := r.db.SelectInto(ctx, &rows, q, map[string]any{"identifier": id.Value}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
