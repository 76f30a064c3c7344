package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/itsm-service/internal/auth"
	"github.com/spec-kit/itsm-service/internal/config"
	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/repository"
	"github.com/spec-kit/itsm-service/pkg/util"
)

// AuthService coordinates signup, member creation and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLHours),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Signup provisions a new tenant and its first member in one transaction.
func (s *AuthService) Signup(ctx context.Context, organizationName, email string, name *string, password string) (*domain.Tenant, *domain.User, error) {
	if strings.TrimSpace(organizationName) == "" {
		return nil, nil, util.NewValidationError("organizationName is required", nil)
	}
	hash, err := s.validateCredentials(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	tenant := &domain.Tenant{Name: strings.TrimSpace(organizationName)}
	user := &domain.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.users.CreateWithTenant(ctx, tenant, user); err != nil {
		return nil, nil, err
	}
	return tenant, user, nil
}

// AddMember creates an additional user inside the caller's tenant.
func (s *AuthService) AddMember(ctx context.Context, tenantID, email string, name *string, password string) (*domain.User, error) {
	hash, err := s.validateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, Name: name, PasswordHash: hash, TenantID: tenantID}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// validateCredentials checks email/password rules, rejects duplicate emails
// and returns the password hash.
func (s *AuthService) validateCredentials(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", util.NewValidationError("email is required", nil)
	}
	if len(password) < 6 {
		return "", util.NewValidationError("password must be at least 6 chars", nil)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", util.NewConflict("email already exists", nil)
	} else if !util.IsNotFound(err) {
		return "", err
	}
	return auth.HashPassword(password, s.bcryptCost)
}
