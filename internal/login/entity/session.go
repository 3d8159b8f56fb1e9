package entity

import "time"

// Session is the login_details row written after a credential login.
type Session struct {
	UserID       string    `db:"user_id"`
	LoginTime    time.Time `db:"login_time"`
	RefreshToken string    `db:"refresh_token"`
	TokenExpiry  time.Time `db:"token_expiry_date"`
	HostName     string    `db:"host_name"`
	IPAddress    string    `db:"ip_address"`
}

// Tokens is the pair handed to the client on a successful login.
type Tokens struct {
	UserID        string
	AccessToken   string
	AccessExpiry  time.Time
	RefreshToken  string
	RefreshExpiry time.Time
	// SessionWritten is false when a still-valid refresh token was presented.
	SessionWritten bool
}
