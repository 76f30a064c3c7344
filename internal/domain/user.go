package domain

import "time"

// User is a member of a tenant. Email is unique across all tenants.
type User struct {
	ID           string
	Email        string
	Name         *string
	PasswordHash string
	TenantID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayLabel returns the user's name, falling back to email.
func (u *User) DisplayLabel() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
