package entity

import "time"

// Status is the stored verification flag of an OTP session.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusVerified Status = "VERIFIED"
)

// Session is the single OTP row kept per user in user_otp_details.
type Session struct {
	UserID       string    `db:"user_id"`
	OTP          string    `db:"user_otp"`
	RefreshToken string    `db:"refresh_token"`
	TokenExpiry  time.Time `db:"token_expiry_date"`
	Status       Status    `db:"status"`
	HostName     string    `db:"host_name"`
	IPAddress    string    `db:"ip_address"`
}

// Expired reports whether now is past the session expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.TokenExpiry)
}

// State is the outcome of a status inquiry.
type State string

const (
	StateNoDataFound State = "NO_DATA_FOUND"
	StateExpired     State = "EXPIRED"
	StatePending     State = "PENDING"
	StateVerified    State = "VERIFIED"
)
