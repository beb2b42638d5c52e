package rbac

import (
	"strings"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Decision is the terminal state of classifying a request path.
type Decision int

const (
	// DecisionPublic forwards the request without any session requirement.
	DecisionPublic Decision = iota
	// DecisionUnauthenticated means a protected path was hit without a
	// principal; browsers are sent to the login page with a callback.
	DecisionUnauthenticated
	// DecisionForbidden means the principal is authenticated but lacks
	// the required role; browsers are sent to the dashboard, not login.
	DecisionForbidden
	// DecisionAllowed forwards the request unchanged.
	DecisionAllowed
)

// PrefixRule gates a path prefix behind a set of roles.
type PrefixRule struct {
	Prefix string
	Roles  []shared.Role
}

// RouteTable is the static route classification. It is built once at
// process start and only read afterwards; Classify is side-effect free
// and safe for unsynchronized concurrent use.
type RouteTable struct {
	LoginPath     string
	DashboardPath string

	publicExact  map[string]struct{}
	publicPrefix []string
	rules        []PrefixRule
}

// RouteConfig describes a route table. Zero fields fall back to the
// deployment defaults.
type RouteConfig struct {
	PublicPaths      []string
	PublicPrefixes   []string
	AdminPrefix      string
	InstructorPrefix string
	LoginPath        string
	DashboardPath    string
}

// NewRouteTable builds a RouteTable from configuration.
func NewRouteTable(cfg RouteConfig) *RouteTable {
	if len(cfg.PublicPaths) == 0 {
		cfg.PublicPaths = []string{"/", "/login", "/register", "/forgot-password", "/reset-password", "/healthz", "/metrics"}
	}
	if len(cfg.PublicPrefixes) == 0 {
		cfg.PublicPrefixes = []string{"/api/auth"}
	}
	if cfg.AdminPrefix == "" {
		cfg.AdminPrefix = "/admin"
	}
	if cfg.InstructorPrefix == "" {
		cfg.InstructorPrefix = "/instructor"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.DashboardPath == "" {
		cfg.DashboardPath = "/dashboard"
	}

	exact := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		if p = strings.TrimSpace(p); p != "" {
			exact[p] = struct{}{}
		}
	}

	return &RouteTable{
		LoginPath:     cfg.LoginPath,
		DashboardPath: cfg.DashboardPath,
		publicExact:   exact,
		publicPrefix:  cfg.PublicPrefixes,
		rules: []PrefixRule{
			{Prefix: cfg.AdminPrefix, Roles: []shared.Role{shared.RoleAdmin}},
			{Prefix: cfg.InstructorPrefix, Roles: []shared.Role{shared.RoleInstructor, shared.RoleAdmin}},
			{Prefix: "/api/admin", Roles: []shared.Role{shared.RoleAdmin}},
		},
	}
}

// DefaultRouteTable returns the table with deployment defaults.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(RouteConfig{})
}

// Classify decides how a request for path should be handled. A nil
// principal means the request carries no valid session.
func (t *RouteTable) Classify(path string, p *shared.Principal) Decision {
	if t.isPublic(path) {
		return DecisionPublic
	}
	if p == nil {
		return DecisionUnauthenticated
	}
	if p.Role == shared.RoleSuperAdmin {
		return DecisionAllowed
	}
	for _, rule := range t.rules {
		if !matchesPrefix(path, rule.Prefix) {
			continue
		}
		for _, role := range rule.Roles {
			if p.Role == role {
				return DecisionAllowed
			}
		}
		return DecisionForbidden
	}
	return DecisionAllowed
}

func (t *RouteTable) isPublic(path string) bool {
	if _, ok := t.publicExact[path]; ok {
		return true
	}
	for _, prefix := range t.publicPrefix {
		if matchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// matchesPrefix treats /admin as matching /admin and /admin/..., but
// not /administrator.
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
