package entity

import "time"

// User is a row of user_master. Nullable text columns are read through
// COALESCE so they surface as empty strings.
type User struct {
	UserID        string     `db:"user_id" json:"userId"`
	UserName      string     `db:"user_name" json:"userName"`
	UserEmail     string     `db:"user_email" json:"userEmail"`
	PrimMobileNo  string     `db:"prim_mobile_no" json:"primMobileNo"`
	Sex           string     `db:"sex" json:"sex"`
	MaritalStatus string     `db:"marital_status" json:"maritalStatus"`
	Address       string     `db:"address" json:"address"`
	AadharNo      string     `db:"aadhar_no" json:"aadharNo"`
	PrimOrgnCode  string     `db:"prim_orgn_code" json:"primOrgnCode"`
	PrimDeptCode  string     `db:"prim_dept_code" json:"primDeptCode"`
	PrimDesgCode  string     `db:"prim_desg_code" json:"primDesgCode"`
	EntryUser     string     `db:"entry_user" json:"entryUser"`
	EntryDate     time.Time  `db:"entry_date" json:"entryDate"`
	ModifyUser    string     `db:"modify_user" json:"modifyUser,omitempty"`
	ModifyDate    *time.Time `db:"modify_date" json:"modifyDate,omitempty"`
	HostName      string     `db:"host_name" json:"-"`
	IPAddress     string     `db:"ip_address" json:"-"`
}

// Input is the writable subset accepted on create and update. On update an
// empty field leaves the stored value untouched.
type Input struct {
	UserID        string `json:"userId" validate:"omitempty,max=32,notmobile"`
	UserName      string `json:"userName" validate:"omitempty,max=200"`
	UserEmail     string `json:"userEmail" validate:"omitempty,email"`
	PrimMobileNo  string `json:"primMobileNo" validate:"omitempty,mobile"`
	Sex           string `json:"sex" validate:"omitempty,oneof=M F O"`
	MaritalStatus string `json:"maritalStatus" validate:"omitempty,max=16"`
	Address       string `json:"address"`
	AadharNo      string `json:"aadharNo" validate:"omitempty,numeric,len=12"`
	PrimOrgnCode  string `json:"primOrgnCode" validate:"omitempty,max=32"`
	PrimDeptCode  string `json:"primDeptCode" validate:"omitempty,max=32"`
	PrimDesgCode  string `json:"primDesgCode" validate:"omitempty,max=32"`
	EntryUser     string `json:"entryUser" validate:"omitempty,max=32"`
}
