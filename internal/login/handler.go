package login

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/httpjson"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/login/entity"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

type loginService interface {
	Login(ctx context.Context, in Input, origin audit.Origin) (*entity.Tokens, error)
	Config() Config
}

type Handler struct {
	svc    loginService
	audit  *audit.Recorder
	logger *zap.SugaredLogger
}

func NewHandler(svc loginService, rec *audit.Recorder, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, audit: rec, logger: logger}
}

// Request is the body of POST /login.
type Request struct {
	UserID   string `json:"USER_ID"`
	Password string `json:"PASSWORD"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	in := Input{UserID: req.UserID, Password: req.Password}
	if c, err := r.Cookie(refreshCookie); err == nil {
		in.PresentedRefresh = c.Value
	}

	toks, err := h.svc.Login(r.Context(), in, h.audit.FromRequest(r))
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}

	cfg := h.svc.Config()
	http.SetCookie(w, h.cookie(accessCookie, toks.AccessToken, int(cfg.AccessCookieAge.Seconds()), cfg.CookieSecure))
	http.SetCookie(w, h.cookie(refreshCookie, toks.RefreshToken, int(cfg.RefreshCookieAge.Seconds()), cfg.CookieSecure))
	w.Header().Set(accessCookie, toks.AccessToken)
	w.Header().Set(refreshCookie, toks.RefreshToken)

	env := httpjson.OK("Login successful")
	env.AccessToken = toks.AccessToken
	env.RefreshToken = toks.RefreshToken
	httpjson.Write(w, http.StatusOK, env)
}

func (h *Handler) cookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
