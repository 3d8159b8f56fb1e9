package user

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/httpjson"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

type userService interface {
	List(ctx context.Context) ([]entity.User, error)
	Get(ctx context.Context, userID string) (*entity.User, error)
	Create(ctx context.Context, in entity.Input, origin audit.Origin) (*entity.User, error)
	Update(ctx context.Context, userID string, in entity.Input, origin audit.Origin) (*entity.User, error)
}

// Handler exposes the /v0/user endpoints.
type Handler struct {
	svc    userService
	audit  *audit.Recorder
	logger *zap.SugaredLogger
}

func NewHandler(svc userService, rec *audit.Recorder, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, audit: rec, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.Input
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	u, err := h.svc.Create(r.Context(), in, h.audit.FromRequest(r))
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	h.logger.Infow("user created", "user_id", u.UserID)
	httpjson.Write(w, http.StatusCreated, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in entity.Input
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	u, err := h.svc.Update(r.Context(), mux.Vars(r)["userId"], in, h.audit.FromRequest(r))
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}
