// Package httpjson writes the JSON envelope shared by every endpoint.
package httpjson

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

// Envelope is the response body. Status is the string "true" or "false".
type Envelope struct {
	Status       string `json:"status"`
	OTPStatus    string `json:"otpStatus,omitempty"`
	Message      string `json:"message,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Data         any    `json:"data,omitempty"`
}

func OK(message string) Envelope { return Envelope{Status: "true", Message: message} }
func Fail(message string) Envelope { return Envelope{Status: "false", Message: message} }

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err with the status picked by apperr. Server-side failures
// are logged at warn level, caller errors at debug.
func Error(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Warnw("request failed", "kind", apperr.KindOf(err).String(), "err", err)
	} else {
		logger.Debugw("request rejected", "kind", apperr.KindOf(err).String(), "err", err)
	}
	Write(w, status, Fail(apperr.Message(err)))
}

// Decode reads a JSON body into v. A malformed body is a validation error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid payload")
	}
	return nil
}
