package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"anoa.com/qaforum/internal/modules/user/dto"
	"anoa.com/qaforum/internal/modules/user/repository"
	"anoa.com/qaforum/pkg/identity"
)

type UserService interface {
	GetMe(ctx context.Context, caller identity.Identity) (*dto.UserResponse, error)
	UpdateBio(ctx context.Context, caller identity.Identity, req dto.UpdateBioRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	sanitizer *bluemonday.Policy
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

func (s *userService) GetMe(ctx context.Context, caller identity.Identity) (*dto.UserResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	}
	if user.Bio != nil {
		resp.Bio = *user.Bio
	}
	return resp, nil
}

func (s *userService) UpdateBio(ctx context.Context, caller identity.Identity, req dto.UpdateBioRequest) (*dto.UserResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	bio := strings.TrimSpace(s.sanitizer.Sanitize(req.Bio))
	if err := s.repo.UpdateBio(ctx, caller.UserID, bio); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, caller)
}
