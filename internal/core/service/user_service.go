package service

import (
	"context"

	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

// UserService covers self-service profile access and the public user listing.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile replaces the four editable profile fields of the caller's own
// record. Login and role are not part of Profile and cannot change here.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) (*domain.User, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	return s.repo.ListByRole(ctx, role)
}

// CatalogService lists the offered services.
type CatalogService struct {
	repo ports.CatalogRepository
}

func NewCatalogService(repo ports.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) List(ctx context.Context, serviceType string) ([]*domain.ServiceEntry, error) {
	return s.repo.List(ctx, serviceType)
}
