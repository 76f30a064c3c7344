package service

import (
	"context"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/repository"
	"github.com/spec-kit/itsm-service/pkg/util"
)

// UserService manages tenant membership.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns the caller's tenant members, newest first.
func (s *UserService) List(ctx context.Context, tenantID string) ([]domain.User, error) {
	return s.users.ListByTenant(ctx, tenantID)
}

// Delete removes a tenant member. Callers cannot remove themselves, and a
// target in another tenant is forbidden rather than hidden: user removal is
// an explicit mutation, not a scoped read.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, targetID string) error {
	if targetID == "" {
		return util.NewValidationError("user id is required", nil)
	}
	if targetID == caller.ID {
		return util.NewValidationError("cannot remove yourself", nil)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if util.IsNotFound(err) {
			return util.NewNotFound("user", nil)
		}
		return err
	}
	if target.TenantID != caller.TenantID {
		return util.NewForbidden("user belongs to another organization")
	}
	return s.users.Delete(ctx, targetID)
}
