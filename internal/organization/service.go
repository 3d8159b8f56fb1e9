// Package organization manages orgn_master records.
package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/organization/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

type store interface {
	List(ctx context.Context) ([]entity.Organization, error)
	GetByCode(ctx context.Context, code string) (*entity.Organization, error)
	Create(ctx context.Context, o entity.Organization) (bool, error)
	Update(ctx context.Context, o entity.Organization) (int64, error)
}

// Service encapsulates organization master rules.
type Service struct {
	repo store
	now  func() time.Time
}

func NewService(r store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: r, now: now}
}

func (s *Service) List(ctx context.Context) ([]entity.Organization, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, code string) (*entity.Organization, error) {
	o, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("No data found")
	}
	return o, nil
}

func (s *Service) Create(ctx context.Context, in entity.Organization) (*entity.Organization, error) {
	if err := utilities.Validate(in); err != nil {
		return nil, err
	}
	in.EntryDate = s.now()
	in.ModifyUser, in.ModifyDate = "", nil
	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	if !created {
		return nil, apperr.Validation("organization code already exists")
	}
	return &in, nil
}

// Update changes the supplied fields of the live organization code.
// modifyUser defaults to "defaultUser" when the caller sends none.
func (s *Service) Update(ctx context.Context, code string, in entity.Organization) (*entity.Organization, error) {
	existing, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	in.OrgnCode = code
	if in.OrgnName == "" {
		in.OrgnName = existing.OrgnName
	}
	if err := utilities.Validate(in); err != nil {
		return nil, err
	}
	if in.ModifyUser == "" {
		in.ModifyUser = "defaultUser"
	}
	now := s.now()
	in.ModifyDate = &now

	n, err := s.repo.Update(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("No data found")
	}
	return s.Get(ctx, code)
}
