package users

import (
	"context"

	"github.com/biddergod/users-service/pkg/db"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
)

// Service exposes user profile reads and updates for the HTTP layer and
// sibling services.
type Service interface {
	GetByID(ctx context.Context, id int64) (*UserDTO, error)
	GetByIDs(ctx context.Context, ids []int64) (BulkUsersDTO, error)
	UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) (*UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a users service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	return &service{repo: repo}, nil
}

// GetByID returns the profile for a single user.
func (s *service) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, err
	}
	return FromModel(user), nil
}

// GetByIDs resolves a set of ids, silently omitting unknown ones. Sibling
// services (payments, auctions) use this for profile summaries.
func (s *service) GetByIDs(ctx context.Context, ids []int64) (BulkUsersDTO, error) {
	found, err := s.repo.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return BulkUsersDTO{}, err
	}

	dtos := make([]UserDTO, 0, len(found))
	for i := range found {
		dtos = append(dtos, *FromModel(&found[i]))
	}
	return BulkUsersDTO{
		Users:     dtos,
		Found:     len(dtos),
		Requested: len(ids),
	}, nil
}

// UpdateProfile applies the provided profile fields and returns the result.
func (s *service) UpdateProfile(ctx context.Context, id int64, input UpdateProfileInput) (*UserDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, id, input.Email, input.FirstName, input.LastName); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already in use")
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
