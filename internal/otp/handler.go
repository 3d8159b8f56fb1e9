package otp

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/httpjson"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/otp/entity"
)

type otpService interface {
	Status(ctx context.Context, raw string, origin audit.Origin) (entity.State, error)
	Verify(ctx context.Context, in VerifyInput, origin audit.Origin) (*VerifyResult, error)
}

// Handler exposes the OTP status and verification endpoints.
type Handler struct {
	svc    otpService
	audit  *audit.Recorder
	logger *zap.SugaredLogger
}

func NewHandler(svc otpService, rec *audit.Recorder, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, audit: rec, logger: logger}
}

var stateReplies = map[entity.State]struct {
	code int
	env  httpjson.Envelope
}{
	entity.StateNoDataFound: {http.StatusOK, httpjson.Envelope{Status: "false", Message: "No OTP data found. A new OTP has been sent. Please verify your OTP."}},
	entity.StateExpired:     {http.StatusUnauthorized, httpjson.Envelope{Status: "false", Message: "OTP has expired. A new OTP has been sent. Please verify your OTP."}},
	entity.StatePending:     {http.StatusAccepted, httpjson.Envelope{Status: "true", Message: "OTP already sent and pending verification"}},
	entity.StateVerified:    {http.StatusOK, httpjson.Envelope{Status: "true", Message: "User has a valid OTP"}},
}

// Status handles GET /users/{id}/otp.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Status(r.Context(), mux.Vars(r)["id"], h.audit.FromRequest(r))
	if err != nil {
		var otpStatus string
		switch {
		case errors.Is(err, ErrReissue):
			h.logger.Warnw("otp reissue failed", "err", err)
			otpStatus = "ERROR_SENDING_NEW_OTP"
		case apperr.Is(err, apperr.KindNotFound):
			otpStatus = "INVALID USER ID OR MOBILE NUMBER"
		default:
			httpjson.Error(w, h.logger, err)
			return
		}
		env := httpjson.Fail(apperr.Message(err))
		env.OTPStatus = otpStatus
		httpjson.Write(w, apperr.HTTPStatus(err), env)
		return
	}
	reply := stateReplies[state]
	reply.env.OTPStatus = string(state)
	httpjson.Write(w, reply.code, reply.env)
}

// VerifyRequest is the body of POST /users/{id}/otp/verify.
type VerifyRequest struct {
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// Verify handles POST /users/{id}/otp/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	res, err := h.svc.Verify(r.Context(), VerifyInput{
		Identifier:  mux.Vars(r)["id"],
		OTP:         req.OTP,
		NewPassword: req.NewPassword,
	}, h.audit.FromRequest(r))
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, httpjson.OK(res.Message))
}
