package entity

import "time"

// PasswordRecord is the single live password row per user. The table keeps
// the historical name but holds only the latest hash.
type PasswordRecord struct {
	UserID       string    `db:"user_id"`
	PasswordHash string    `db:"password_hash"`
	LastUpdate   time.Time `db:"pwd_last_update"`
	HostName     string    `db:"host_name"`
	IPAddress    string    `db:"ip_address"`
}
