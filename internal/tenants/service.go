package tenants

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Service handles tenant business logic. Reads go through the cached
// directory; writes hit the repository and invalidate the cache.
type Service struct {
	repo RepositoryPort
	dir  *Directory
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, dir *Directory) *Service {
	return &Service{repo: repo, dir: dir}
}

// Get returns a tenant by ID.
func (s *Service) Get(ctx context.Context, id string) (*Tenant, error) {
	if s.dir != nil {
		return s.dir.Get(ctx, id)
	}
	return s.repo.Get(ctx, id)
}

// Resolve returns a tenant by subdomain.
func (s *Service) Resolve(ctx context.Context, subdomain string) (*Tenant, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if s.dir != nil {
		return s.dir.GetBySubdomain(ctx, subdomain)
	}
	return s.repo.GetBySubdomain(ctx, subdomain)
}

// IsActive reports whether the tenant accepts authentication.
func (s *Service) IsActive(ctx context.Context, id string) (bool, error) {
	if s.dir != nil {
		return s.dir.IsActive(ctx, id)
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, nil
	}
	return t.Status.Active(), nil
}

// List returns all tenants.
func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	return s.repo.List(ctx)
}

// CreateInput carries the fields for a new tenant.
type CreateInput struct {
	Name        string
	Subdomain   string
	Logo        string
	AccentColor string
	Plan        Plan
}

// Create registers a new tenant in ACTIVE state.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Tenant, error) {
	name := strings.TrimSpace(in.Name)
	subdomain := strings.ToLower(strings.TrimSpace(in.Subdomain))
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if !subdomainPattern.MatchString(subdomain) {
		return nil, fmt.Errorf("%w: malformed subdomain", ErrInvalidInput)
	}
	plan := in.Plan
	if plan == "" {
		plan = PlanFree
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown plan", ErrInvalidInput)
	}
	return s.repo.Create(ctx, &Tenant{
		ID:          uuid.NewString(),
		Name:        name,
		Subdomain:   subdomain,
		Logo:        in.Logo,
		AccentColor: in.AccentColor,
		Plan:        plan,
		Status:      StatusActive,
	})
}

// UpdateInput carries the mutable tenant fields.
type UpdateInput struct {
	Name        string
	Logo        string
	AccentColor string
	Plan        Plan
	Status      Status
}

// Update modifies an existing tenant and invalidates cached entries.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Tenant, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		current.Name = name
	}
	if in.Logo != "" {
		current.Logo = in.Logo
	}
	if in.AccentColor != "" {
		current.AccentColor = in.AccentColor
	}
	if in.Plan != "" {
		if !in.Plan.Valid() {
			return nil, fmt.Errorf("%w: unknown plan", ErrInvalidInput)
		}
		current.Plan = in.Plan
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status", ErrInvalidInput)
		}
		current.Status = in.Status
	}
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	if s.dir != nil {
		s.dir.Invalidate(ctx, updated)
	}
	return updated, nil
}
