// Package user manages user_master records.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/audit"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

type userStore interface {
	List(ctx context.Context) ([]entity.User, error)
	Get(ctx context.Context, userID string) (*entity.User, error)
	MobileTaken(ctx context.Context, mobile, exceptUserID string) (bool, error)
	Create(ctx context.Context, u entity.User) error
	Update(ctx context.Context, u entity.User) (int64, error)
}

// UserService is a thin layer over the user_master table.
type UserService struct {
	repo  userStore
	newID func() string
	now   func() time.Time
}

func NewUserService(r userStore, newID func() string, now func() time.Time) *UserService {
	if newID == nil {
		newID = utilities.NewSnowflakeID
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{repo: r, newID: newID, now: now}
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("No data found")
	}
	return u, nil
}

// Create inserts a user. The mobile number must be unique and an id is
// generated when none is supplied.
func (s *UserService) Create(ctx context.Context, in entity.Input, origin audit.Origin) (*entity.User, error) {
	if err := utilities.Validate(in); err != nil {
		return nil, err
	}
	var missing []string
	if in.PrimMobileNo == "" {
		missing = append(missing, "primMobileNo")
	}
	if in.Sex == "" {
		missing = append(missing, "sex")
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("Missing mandatory field: " + strings.Join(missing, ", "))
	}

	u := fromInput(in)
	if u.UserID == "" {
		u.UserID = s.newID()
	} else if existing, err := s.repo.Get(ctx, u.UserID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Validation("user id already exists")
	}
	if err := s.ensureMobileFree(ctx, u.PrimMobileNo, u.UserID); err != nil {
		return nil, err
	}
	u.EntryDate = s.now()
	u.HostName = origin.HostName
	u.IPAddress = origin.IPAddress
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Update changes only the supplied fields of userID. The path user id is
// recorded as the modifying user.
func (s *UserService) Update(ctx context.Context, userID string, in entity.Input, origin audit.Origin) (*entity.User, error) {
	if err := utilities.Validate(in); err != nil {
		return nil, err
	}
	if in.PrimMobileNo != "" {
		if err := s.ensureMobileFree(ctx, in.PrimMobileNo, userID); err != nil {
			return nil, err
		}
	}
	u := fromInput(in)
	u.UserID = userID
	now := s.now()
	u.ModifyUser = userID
	u.ModifyDate = &now
	u.HostName = origin.HostName
	u.IPAddress = origin.IPAddress

	n, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return nil, apperr.NotFound("No data found")
	}
	return s.Get(ctx, userID)
}

func (s *UserService) ensureMobileFree(ctx context.Context, mobile, userID string) error {
	taken, err := s.repo.MobileTaken(ctx, mobile, userID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Validation("mobile number already in use")
	}
	return nil
}

func fromInput(in entity.Input) entity.User {
	return entity.User{
		UserID:        strings.TrimSpace(in.UserID),
		UserName:      in.UserName,
		UserEmail:     in.UserEmail,
		PrimMobileNo:  in.PrimMobileNo,
		Sex:           in.Sex,
		MaritalStatus: in.MaritalStatus,
		Address:       in.Address,
		AadharNo:      in.AadharNo,
		PrimOrgnCode:  in.PrimOrgnCode,
		PrimDeptCode:  in.PrimDeptCode,
		PrimDesgCode:  in.PrimDesgCode,
		EntryUser:     in.EntryUser,
	}
}
