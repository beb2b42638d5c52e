package auth

import (
	"time"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// User represents a stored credential record, scoped to a tenant.
// PasswordHash may be empty for external-auth-only accounts; those can
// never authenticate with a password.
type User struct {
	ID           string
	TenantID     string
	Email        string
	Name         string
	PasswordHash string
	Role         shared.Role
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal strips credential material from the record.
func (u *User) Principal() shared.Principal {
	return shared.Principal{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		TenantID: u.TenantID,
		Avatar:   u.Avatar,
	}
}
