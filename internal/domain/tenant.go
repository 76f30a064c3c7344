package domain

import "time"

// Tenant is an isolated organization; every other entity belongs to exactly one.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
