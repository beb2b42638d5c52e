package tenants

import (
	"errors"
	"time"
)

// Plan is the subscription tier of a tenant.
type Plan string

// Subscription plans.
const (
	PlanFree       Plan = "FREE"
	PlanPro        Plan = "PRO"
	PlanEnterprise Plan = "ENTERPRISE"
)

// Valid reports whether the plan is known.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// Status is the lifecycle state of a tenant.
type Status string

// Tenant lifecycle states. Only ACTIVE tenants accept logins and
// registrations.
const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusInactive  Status = "INACTIVE"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusInactive:
		return true
	}
	return false
}

// Active reports whether the tenant accepts authentication.
func (s Status) Active() bool {
	return s == StatusActive
}

// Tenant is an isolated customer organization. All domain records are
// scoped by tenant ID.
type Tenant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Subdomain   string    `json:"subdomain"`
	Logo        string    `json:"logo,omitempty"`
	AccentColor string    `json:"accentColor,omitempty"`
	Plan        Plan      `json:"plan"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	// ErrSubdomainTaken indicates a subdomain collision on create.
	ErrSubdomainTaken = errors.New("tenants: subdomain already taken")
	// ErrInvalidInput indicates a malformed tenant payload.
	ErrInvalidInput = errors.New("tenants: invalid input")
)
