package dto

import (
	"time"

	"github.com/spec-kit/itsm-service/internal/domain"
)

// CreateUserRequest payload. With OrganizationName and no credentials it is a
// signup creating a fresh tenant; authenticated, it adds a tenant member.
type CreateUserRequest struct {
	Email            string  `json:"email"`
	Name             *string `json:"name"`
	Password         string  `json:"password"`
	OrganizationName *string `json:"organizationName"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse mirrors a tenant member. Password hashes never leave the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	TenantID  string    `json:"tenantId"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromDomain converts a domain user.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		TenantID:  u.TenantID,
		CreatedAt: u.CreatedAt,
	}
}

// TenantResponse mirrors a tenant.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TenantFromDomain converts a domain tenant.
func TenantFromDomain(t *domain.Tenant) TenantResponse {
	return TenantResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
