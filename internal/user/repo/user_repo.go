package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

// UserRepo provides data access for user_master.
type UserRepo struct {
	db database.Querier
}

func NewUserRepo(db database.Querier) *UserRepo { return &UserRepo{db: db} }

const userColumns = `user_id, COALESCE(user_name, '') AS user_name, COALESCE(user_email, '') AS user_email,
	prim_mobile_no, sex, COALESCE(marital_status, '') AS marital_status, COALESCE(address, '') AS address,
	COALESCE(aadhar_no, '') AS aadhar_no, COALESCE(prim_orgn_code, '') AS prim_orgn_code,
	COALESCE(prim_dept_code, '') AS prim_dept_code, COALESCE(prim_desg_code, '') AS prim_desg_code,
	COALESCE(entry_user, '') AS entry_user, entry_date, COALESCE(modify_user, '') AS modify_user, modify_date,
	COALESCE(host_name, '') AS host_name, COALESCE(ip_address, '') AS ip_address`

const (
	qListUsers = `SELECT ` + userColumns + ` FROM user_master ORDER BY entry_date DESC`
	qGetUser   = `SELECT ` + userColumns + ` FROM user_master WHERE user_id = :user_id`

	qMobileTaken = `SELECT COUNT(*) AS n FROM user_master
	  WHERE prim_mobile_no = :mobile AND user_id <> :user_id`

	qInsertUser = `INSERT INTO user_master
		(user_id, user_name, user_email, prim_mobile_no, sex, marital_status, address, aadhar_no,
		 prim_orgn_code, prim_dept_code, prim_desg_code, entry_user, entry_date, host_name, ip_address)
	  VALUES (:user_id, :user_name, :user_email, :prim_mobile_no, :sex, :marital_status, :address, :aadhar_no,
		 :prim_orgn_code, :prim_dept_code, :prim_desg_code, :entry_user, :entry_date, :host_name, :ip_address)`

	// Empty values keep the stored column.
	qUpdateUser = `UPDATE user_master SET
		user_name = COALESCE(NULLIF(:user_name, ''), user_name),
		user_email = COALESCE(NULLIF(:user_email, ''), user_email),
		prim_mobile_no = COALESCE(NULLIF(:prim_mobile_no, ''), prim_mobile_no),
		sex = COALESCE(NULLIF(:sex, ''), sex),
		marital_status = COALESCE(NULLIF(:marital_status, ''), marital_status),
		address = COALESCE(NULLIF(:address, ''), address),
		aadhar_no = COALESCE(NULLIF(:aadhar_no, ''), aadhar_no),
		prim_orgn_code = COALESCE(NULLIF(:prim_orgn_code, ''), prim_orgn_code),
		prim_dept_code = COALESCE(NULLIF(:prim_dept_code, ''), prim_dept_code),
		prim_desg_code = COALESCE(NULLIF(:prim_desg_code, ''), prim_desg_code),
		modify_user = :modify_user,
		modify_date = :modify_date,
		host_name = :host_name,
		ip_address = :ip_address
	  WHERE user_id = :user_id`
)

func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	out := []entity.User{}
	if err := r.db.SelectInto(ctx, &out, qListUsers, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the user or nil when absent.
func (r *UserRepo) Get(ctx context.Context, userID string) (*entity.User, error) {
	var rows []entity.User
	if err := r.db.SelectInto(ctx, &rows, qGetUser, map[string]any{"user_id": userID}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// MobileTaken reports whether another user already owns mobile.
func (r *UserRepo) MobileTaken(ctx context.Context, mobile, exceptUserID string) (bool, error) {
	var rows []struct {
		N int64 `db:"n"`
	}
	if err := r.db.SelectInto(ctx, &rows, qMobileTaken, map[string]any{"mobile": mobile, "user_id": exceptUserID}); err != nil {
		return false, err
	}
	return len(rows) > 0 && rows[0].N > 0, nil
}

func (r *UserRepo) Create(ctx context.Context, u entity.User) error {
	_, err := r.db.Insert(ctx, qInsertUser, u)
	return err
}

// Update applies the non-empty fields of u and returns the affected row count.
func (r *UserRepo) Update(ctx context.Context, u entity.User) (int64, error) {
	res, err := r.db.Update(ctx, qUpdateUser, u)
	if err != nil {
		return 0, err
	}
	return res.Affected, nil
}
