// Package apperr defines the error taxonomy shared by the OTP login flow.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error so the HTTP layer can pick a status class.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindExpired
	KindInvalidOtp
	KindUnauthorized
	KindNotification
	KindDataAccess
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindExpired:
		return "EXPIRED"
	case KindInvalidOtp:
		return "INVALID_OTP"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindNotification:
		return "NOTIFICATION_ERROR"
	case KindDataAccess:
		return "DATA_ACCESS_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is a classified error carrying a human-readable message and an
// optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, Err: cause}
}

func Validation(msg string) error { return newErr(KindValidation, msg, nil) }
func NotFound(msg string) error { return newErr(KindNotFound, msg, nil) }
func Expired(msg string) error { return newErr(KindExpired, msg, nil) }
func InvalidOtp(msg string) error { return newErr(KindInvalidOtp, msg, nil) }
func Unauthorized(msg string) error { return newErr(KindUnauthorized, msg, nil) }
func Notification(msg string, cause error) error { return newErr(KindNotification, msg, cause) }
func DataAccess(msg string, cause error) error { return newErr(KindDataAccess, msg, cause) }

// KindOf returns the kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Message returns the message of the first classified error in the chain.
// Unclassified errors yield a generic text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps an error to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidOtp:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExpired, KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotification:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
