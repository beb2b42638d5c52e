package users

import (
	"time"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// User represents a user account for management. It never carries
// credential material.
type User struct {
	ID            string      `json:"id"`
	TenantID      string      `json:"tenantId"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	Role          shared.Role `json:"role"`
	Avatar        string      `json:"avatar,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
