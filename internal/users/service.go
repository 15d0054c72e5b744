package users

import (
	"context"
	"errors"
	"log"

	"github.com/gitadaily/gita-daily-api/pkg/util"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return Service{repo: repo}
}

// Sync resolves an external identity to a local user, provisioning on
// first sight, and mints a bearer token for subsequent calls.
func (s *Service) Sync(ctx context.Context, req SyncRequest) (*User, bool, error) {
	user, err := s.repo.GetByAuthID(ctx, req.AuthID)
	created := false
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
		user, err = s.repo.Create(ctx, req)
		if err != nil {
			log.Printf("error provisioning user: %v", err)
			return nil, false, err
		}
		created = true
	}

	token, err := util.GenerateJWT(user.ID, user.AuthID)
	if err != nil {
		return nil, false, err
	}
	user.Token = token

	return user, created, nil
}

func (s *Service) Get(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, id, req)
}
