package organization

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/httpjson"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/organization/entity"
)

type orgService interface {
	List(ctx context.Context) ([]entity.Organization, error)
	Get(ctx context.Context, code string) (*entity.Organization, error)
	Create(ctx context.Context, in entity.Organization) (*entity.Organization, error)
	Update(ctx context.Context, code string, in entity.Organization) (*entity.Organization, error)
}

// Handler contains dependencies for handling organization endpoints.
type Handler struct {
	svc    orgService
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc orgService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.svc.List(r.Context())
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, orgs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), mux.Vars(r)["orgCode"])
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, o)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.Organization
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	o, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, o)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in entity.Organization
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	o, err := h.svc.Update(r.Context(), mux.Vars(r)["orgCode"], in)
	if err != nil {
		httpjson.Error(w, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, o)
}
