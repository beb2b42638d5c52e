package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/secure/precis"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// ErrInvalidRole indicates a role outside the closed enumeration.
var ErrInvalidRole = errors.New("auth: invalid role")

// TenantDirectory reports tenant availability for login and signup.
type TenantDirectory interface {
	IsActive(ctx context.Context, tenantID string) (bool, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	tenants TenantDirectory
}

// NewService constructs a new Service. tenants may be nil when tenant
// status checks are handled elsewhere.
func NewService(repo Repository, tenants TenantDirectory) *Service {
	return &Service{repo: repo, tenants: tenants}
}

// Authenticate validates email/password credentials, optionally scoped
// to a tenant. Every failure mode (unknown account, missing credential,
// wrong password, suspended tenant, store timeout) collapses into
// shared.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password, tenantID string) (shared.Principal, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return shared.Principal{}, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindUserByEmail(ctx, normalized, tenantID)
	if err != nil {
		return shared.Principal{}, shared.ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return shared.Principal{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return shared.Principal{}, shared.ErrInvalidCredentials
	}
	if s.tenants != nil && user.Role != shared.RoleSuperAdmin {
		active, err := s.tenants.IsActive(ctx, user.TenantID)
		if err != nil || !active {
			return shared.Principal{}, shared.ErrInvalidCredentials
		}
	}
	return user.Principal(), nil
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	TenantID string
	Role     shared.Role
	Avatar   string
}

// Register creates a new user. Role defaults to STUDENT when unset.
func (s *Service) Register(ctx context.Context, in RegisterInput) (shared.Principal, error) {
	normalized, err := NormalizeEmail(in.Email)
	if err != nil {
		return shared.Principal{}, shared.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = shared.RoleStudent
	}
	if !role.Valid() {
		return shared.Principal{}, ErrInvalidRole
	}
	if s.tenants != nil {
		active, err := s.tenants.IsActive(ctx, in.TenantID)
		if err != nil {
			return shared.Principal{}, err
		}
		if !active {
			return shared.Principal{}, shared.ErrTenantUnavailable
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return shared.Principal{}, err
	}
	created, err := s.repo.CreateUser(ctx, &User{
		ID:           uuid.NewString(),
		TenantID:     in.TenantID,
		Email:        normalized,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         role,
		Avatar:       in.Avatar,
	})
	if err != nil {
		return shared.Principal{}, err
	}
	return created.Principal(), nil
}

var emailProfile = precis.UsernameCaseMapped

// NormalizeEmail canonicalizes an address for lookup and storage:
// Unicode case folding plus NFC, so visually identical addresses map to
// the same stored record.
func NormalizeEmail(email string) (string, error) {
	return emailProfile.String(strings.TrimSpace(email))
}
