package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/httpjson"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/otp/entity"
)

type stubService struct {
	state  entity.State
	result *VerifyResult
	err    error

	gotRaw    string
	gotInput  VerifyInput
	gotOrigin audit.Origin
}

func (s *stubService) Status(_ context.Context, raw string, origin audit.Origin) (entity.State, error) {
	s.gotRaw, s.gotOrigin = raw, origin
	return s.state, s.err
}

func (s *stubService) Verify(_ context.Context, in VerifyInput, origin audit.Origin) (*VerifyResult, error) {
	s.gotInput, s.gotOrigin = in, origin
	return s.result, s.err
}

func serve(t *testing.T, svc otpService, req *http.Request) (*httptest.ResponseRecorder, httpjson.Envelope) {
	t.Helper()
	h := NewHandler(svc, audit.NewRecorder(audit.Config{NodeName: "node-1"}), zap.NewNop().Sugar())
	r := mux.NewRouter()
	r.HandleFunc("/users/{id}/otp", h.Status).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/otp/verify", h.Verify).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env httpjson.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandlerStatus_Codes(t *testing.T) {
	tests := []struct {
		state  entity.State
		code   int
		status string
	}{
		{entity.StateNoDataFound, http.StatusOK, "false"},
		{entity.StateExpired, http.StatusUnauthorized, "false"},
		{entity.StatePending, http.StatusAccepted, "true"},
		{entity.StateVerified, http.StatusOK, "true"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			svc := &stubService{state: tt.state}
			req := httptest.NewRequest(http.MethodGet, "/users/9123456789/otp", nil)
			req.RemoteAddr = "10.1.2.3:5555"

			rec, env := serve(t, svc, req)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.status, env.Status)
			assert.Equal(t, string(tt.state), env.OTPStatus)
			assert.NotEmpty(t, env.Message)
			assert.Equal(t, "9123456789", svc.gotRaw)
			assert.Equal(t, audit.Origin{HostName: "node-1", IPAddress: "10.1.2.3"}, svc.gotOrigin)
		})
	}
}

func TestHandlerStatus_Errors(t *testing.T) {
	rec, env := serve(t, &stubService{err: apperr.NotFound("INVALID USER ID OR MOBILE NUMBER")},
		httptest.NewRequest(http.MethodGet, "/users/U404/otp", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "INVALID USER ID OR MOBILE NUMBER", env.Message)
	assert.Equal(t, "INVALID USER ID OR MOBILE NUMBER", env.OTPStatus)

	reissue := fmt.Errorf("%w: %w", ErrReissue, apperr.Notification("error sending OTP", errors.New("down")))
	rec, env = serve(t, &stubService{err: reissue},
		httptest.NewRequest(http.MethodGet, "/users/U1/otp", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "ERROR_SENDING_NEW_OTP", env.OTPStatus)

	reissue = fmt.Errorf("%w: %w", ErrReissue, apperr.Validation("mobile number not found for the provided identifier"))
	rec, env = serve(t, &stubService{err: reissue},
		httptest.NewRequest(http.MethodGet, "/users/U1/otp", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "false", env.Status)
	assert.Equal(t, "ERROR_SENDING_NEW_OTP", env.OTPStatus)

	rec, env = serve(t, &stubService{err: errors.New("db down")},
		httptest.NewRequest(http.MethodGet, "/users/U1/otp", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, env.OTPStatus)
}

func TestHandlerVerify(t *testing.T) {
	svc := &stubService{result: &VerifyResult{PasswordUpdated: true, Message: "OTP verified successfully. Password has been updated."}}
	req := httptest.NewRequest(http.MethodPost, "/users/U1/otp/verify", strings.NewReader(`{"otp":"482913","newPassword":"secret"}`))

	rec, env := serve(t, svc, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", env.Status)
	assert.Equal(t, VerifyInput{Identifier: "U1", OTP: "482913", NewPassword: "secret"}, svc.gotInput)
}

func TestHandlerVerify_Errors(t *testing.T) {
	rec, _ := serve(t, &stubService{}, httptest.NewRequest(http.MethodPost, "/users/U1/otp/verify", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := serve(t, &stubService{err: apperr.InvalidOtp("Invalid OTP")},
		httptest.NewRequest(http.MethodPost, "/users/U1/otp/verify", strings.NewReader(`{"otp":"1"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP", env.Message)

	rec, _ = serve(t, &stubService{err: apperr.Expired("OTP expired. Please request a new OTP to verify again.")},
		httptest.NewRequest(http.MethodPost, "/users/U1/otp/verify", strings.NewReader(`{"otp":"1"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
