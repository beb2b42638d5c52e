package users

import (
	"context"
	"errors"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// ErrInvalidRole indicates a role outside the closed enumeration.
var ErrInvalidRole = errors.New("users: invalid role")

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListByTenant(ctx context.Context, tenantID string, role shared.Role) ([]User, error)
	Get(ctx context.Context, tenantID, id string) (*User, error)
	SetRole(ctx context.Context, tenantID, id string, role shared.Role) error
}

// Service handles user management logic. Every operation is scoped to a
// tenant; callers that bypass tenant scoping (super admin) pass the
// target tenant explicitly.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns the users of a tenant, optionally filtered by role.
func (s *Service) List(ctx context.Context, tenantID string, role shared.Role) ([]User, error) {
	if role != "" && !role.Valid() {
		return nil, ErrInvalidRole
	}
	return s.repo.ListByTenant(ctx, tenantID, role)
}

// Get fetches a single user within a tenant.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*User, error) {
	return s.repo.Get(ctx, tenantID, id)
}

// ChangeRole assigns a new role to the user. SUPER_ADMIN cannot be
// granted through this surface.
func (s *Service) ChangeRole(ctx context.Context, tenantID, id string, role shared.Role) (*User, error) {
	if !role.Valid() || role == shared.RoleSuperAdmin {
		return nil, ErrInvalidRole
	}
	if err := s.repo.SetRole(ctx, tenantID, id, role); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tenantID, id)
}
