package rbac_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atlas-lms/atlas-lms/internal/rbac"
	"github.com/atlas-lms/atlas-lms/internal/shared"
	_ "github.com/atlas-lms/atlas-lms/testing"
)

func gateRequest(t *testing.T, path string, principal *shared.Principal) *httptest.ResponseRecorder {
	t.Helper()
	gate := rbac.Gate{Table: rbac.DefaultRouteTable()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), *principal))
	}
	res := httptest.NewRecorder()
	gate.Handler(next).ServeHTTP(res, req)
	return res
}

func TestGateForwardsPublicAndAllowed(t *testing.T) {
	if res := gateRequest(t, "/login", nil); res.Code != http.StatusOK {
		t.Fatalf("public path should pass through, got %d", res.Code)
	}

	student := principalWithRole(shared.RoleStudent)
	if res := gateRequest(t, "/dashboard", &student); res.Code != http.StatusOK {
		t.Fatalf("authenticated dashboard request should pass, got %d", res.Code)
	}
}

func TestGateRedirectsAnonymousBrowser(t *testing.T) {
	res := gateRequest(t, "/instructor/courses", nil)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	location := res.Header().Get("Location")
	if location != "/login?callbackUrl=%2Finstructor%2Fcourses" {
		t.Fatalf("unexpected redirect target: %s", location)
	}
}

func TestGateRedirectsUnderPrivilegedBrowser(t *testing.T) {
	student := principalWithRole(shared.RoleStudent)
	res := gateRequest(t, "/admin/tenants", &student)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if location := res.Header().Get("Location"); location != "/dashboard" {
		t.Fatalf("under-privileged users go to the dashboard, got %s", location)
	}
}

func TestGateRespondsJSONForAPI(t *testing.T) {
	res := gateRequest(t, "/api/admin/users", nil)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous API request should get 401, got %d", res.Code)
	}
	var problem map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &problem); err != nil {
		t.Fatalf("expected JSON problem body: %v", err)
	}

	student := principalWithRole(shared.RoleStudent)
	res = gateRequest(t, "/api/admin/users", &student)
	if res.Code != http.StatusForbidden {
		t.Fatalf("under-privileged API request should get 403, got %d", res.Code)
	}
	if location := res.Header().Get("Location"); location != "" {
		t.Fatalf("API denials must not redirect, got Location %s", location)
	}
}

func TestGateAllowsSuperAdminEverywhere(t *testing.T) {
	root := principalWithRole(shared.RoleSuperAdmin)
	for _, path := range []string{"/admin", "/instructor", "/api/admin/tenants", "/dashboard"} {
		if res := gateRequest(t, path, &root); res.Code != http.StatusOK {
			t.Fatalf("super admin should reach %s, got %d", path, res.Code)
		}
	}
}
