package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/organization/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
)

// Repo is the orgn_master repository.
type Repo struct {
	db database.Querier
}

func NewRepo(db database.Querier) *Repo {
	return &Repo{db: db}
}

const orgColumns = `orgn_code, orgn_name, COALESCE(orgn_type_code, '') AS orgn_type_code,
	COALESCE(group_code, '') AS group_code, COALESCE(sub_group_code, '') AS sub_group_code,
	COALESCE(logo_code, '') AS logo_code, COALESCE(entry_user, '') AS entry_user, entry_date,
	COALESCE(modify_user, '') AS modify_user, modify_date`

const (
	qListOrgs = `SELECT ` + orgColumns + ` FROM orgn_master WHERE to_date IS NULL ORDER BY orgn_code`
	qGetOrg   = `SELECT ` + orgColumns + ` FROM orgn_master WHERE orgn_code = :orgn_code AND to_date IS NULL`

	qInsertOrg = `INSERT INTO orgn_master
		(orgn_code, orgn_name, orgn_type_code, group_code, sub_group_code, logo_code, entry_user, entry_date)
	  VALUES (:orgn_code, :orgn_name, :orgn_type_code, :group_code, :sub_group_code, :logo_code, :entry_user, :entry_date)
	  ON CONFLICT (orgn_code) DO NOTHING`

	qUpdateOrg = `UPDATE orgn_master SET
		orgn_name = COALESCE(NULLIF(:orgn_name, ''), orgn_name),
		orgn_type_code = COALESCE(NULLIF(:orgn_type_code, ''), orgn_type_code),
		group_code = COALESCE(NULLIF(:group_code, ''), group_code),
		sub_group_code = COALESCE(NULLIF(:sub_group_code, ''), sub_group_code),
		logo_code = COALESCE(NULLIF(:logo_code, ''), logo_code),
		modify_user = :modify_user,
		modify_date = :modify_date
	  WHERE orgn_code = :orgn_code AND to_date IS NULL`
)

func (r *Repo) List(ctx context.Context) ([]entity.Organization, error) {
	out := []entity.Organization{}
	if err := r.db.SelectInto(ctx, &out, qListOrgs, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByCode returns the live organization or nil.
func (r *Repo) GetByCode(ctx context.Context, code string) (*entity.Organization, error) {
	var rows []entity.Organization
	if err := r.db.SelectInto(ctx, &rows, qGetOrg, map[string]any{"orgn_code": code}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Create inserts o and reports false when the code already exists.
func (r *Repo) Create(ctx context.Context, o entity.Organization) (bool, error) {
	res, err := r.db.Insert(ctx, qInsertOrg, o)
	if err != nil {
		return false, err
	}
	return res.Affected == 1, nil
}

func (r *Repo) Update(ctx context.Context, o entity.Organization) (int64, error) {
	res, err := r.db.Update(ctx, qUpdateOrg, o)
	if err != nil {
		return 0, err
	}
	return res.Affected, nil
}
