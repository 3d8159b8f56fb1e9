package entity

import (
	"strings"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

// Kind tells which column an identifier is matched against.
type Kind int

const (
	KindUserID Kind = iota
	KindMobile
)

func (k Kind) String() string {
	if k == KindMobile {
		return "mobile"
	}
	return "user_id"
}

// Identifier is a user id or a primary mobile number, classified once at the
// request boundary.
type Identifier struct {
	Kind  Kind
	Value string
}

// ParseIdentifier treats exactly ten ASCII digits as a mobile number and
// anything else as a user id.
func ParseIdentifier(raw string) (Identifier, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Identifier{}, apperr.Validation("User ID or Mobile Number is required")
	}
	if isMobile(v) {
		return Identifier{Kind: KindMobile, Value: v}, nil
	}
	return Identifier{Kind: KindUserID, Value: v}, nil
}

func isMobile(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Identity is the canonical resolution of an identifier.
type Identity struct {
	UserID       string `db:"user_id"`
	MobileNumber string `db:"prim_mobile_no"`
}
