package entity

import "time"

// Organization is a live row of orgn_master. Rows with a to_date are
// retired and never returned.
type Organization struct {
	OrgnCode     string     `db:"orgn_code" json:"orgnCode" validate:"required,max=32"`
	OrgnName     string     `db:"orgn_name" json:"orgnName" validate:"required,max=200"`
	OrgnTypeCode string     `db:"orgn_type_code" json:"orgnTypeCode" validate:"omitempty,max=32"`
	GroupCode    string     `db:"group_code" json:"groupCode" validate:"omitempty,max=32"`
	SubGroupCode string     `db:"sub_group_code" json:"subGroupCode" validate:"omitempty,max=32"`
	LogoCode     string     `db:"logo_code" json:"logoCode" validate:"omitempty,max=32"`
	EntryUser    string     `db:"entry_user" json:"entryUser" validate:"omitempty,max=32"`
	EntryDate    time.Time  `db:"entry_date" json:"entryDate"`
	ModifyUser   string     `db:"modify_user" json:"modifyUser,omitempty" validate:"omitempty,max=32"`
	ModifyDate   *time.Time `db:"modify_date" json:"modifyDate,omitempty"`
}
