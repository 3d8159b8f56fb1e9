// Package identity resolves user ids and mobile numbers to a canonical user.
package identity

import (
	"context"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/identity/entity"
)

const msgInvalidIdentity = "INVALID USER ID OR MOBILE NUMBER"

type Store interface {
	Exists(ctx context.Context, value string) (bool, error)
	Find(ctx context.Context, id entity.Identifier) (*entity.Identity, error)
}

type Resolver struct {
	repo Store
}

func NewResolver(repo Store) *Resolver { return &Resolver{repo: repo} }

// Exists reports whether any user matches id by user id or mobile number.
func (s *Resolver) Exists(ctx context.Context, id entity.Identifier) (bool, error) {
	ok, err := s.repo.Exists(ctx, id.Value)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return ok, nil
}

// Resolve maps id to its user. A missing row or a row without a user id is
// reported as NotFound.
func (s *Resolver) Resolve(ctx context.Context, id entity.Identifier) (entity.Identity, error) {
	found, err := s.repo.Find(ctx, id)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("resolve identity: %w", err)
	}
	if found == nil || found.UserID == "" {
		return entity.Identity{}, apperr.NotFound(msgInvalidIdentity)
	}
	return *found, nil
}
