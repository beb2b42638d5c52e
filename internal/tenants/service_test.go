package tenants_test

import (
	"context"
	"errors"
	"testing"

	"github.com/atlas-lms/atlas-lms/internal/tenants"
	_ "github.com/atlas-lms/atlas-lms/testing"
)

func TestCreateTenantDefaults(t *testing.T) {
	repo := &stubTenantRepo{}
	svc := tenants.NewService(repo, nil)

	created, err := svc.Create(context.Background(), tenants.CreateInput{
		Name:      "  Acme Academy ",
		Subdomain: " ACME ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Acme Academy" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}
	if created.Subdomain != "acme" {
		t.Fatalf("subdomain not lowercased: %q", created.Subdomain)
	}
	if created.Plan != tenants.PlanFree {
		t.Fatalf("expected FREE default plan, got %s", created.Plan)
	}
	if created.Status != tenants.StatusActive {
		t.Fatalf("new tenants start ACTIVE, got %s", created.Status)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestCreateTenantValidation(t *testing.T) {
	svc := tenants.NewService(&stubTenantRepo{}, nil)
	ctx := context.Background()

	cases := []tenants.CreateInput{
		{Name: "", Subdomain: "acme"},
		{Name: "Acme", Subdomain: ""},
		{Name: "Acme", Subdomain: "Bad_Sub!"},
		{Name: "Acme", Subdomain: "-leading"},
		{Name: "Acme", Subdomain: "acme", Plan: tenants.Plan("GOLD")},
	}
	for _, in := range cases {
		if _, err := svc.Create(ctx, in); !errors.Is(err, tenants.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestCreateTenantSubdomainTaken(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenants.Tenant{"tenant-1": acmeTenant()}}
	svc := tenants.NewService(repo, nil)

	_, err := svc.Create(context.Background(), tenants.CreateInput{Name: "Other", Subdomain: "acme"})
	if !errors.Is(err, tenants.ErrSubdomainTaken) {
		t.Fatalf("expected ErrSubdomainTaken, got %v", err)
	}
}

func TestResolveNormalizesSubdomain(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenants.Tenant{"tenant-1": acmeTenant()}}
	svc := tenants.NewService(repo, nil)

	resolved, err := svc.Resolve(context.Background(), "  ACME ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != "tenant-1" {
		t.Fatalf("unexpected tenant: %+v", resolved)
	}
}

func TestUpdateTenant(t *testing.T) {
	repo := &stubTenantRepo{tenants: map[string]*tenants.Tenant{"tenant-1": acmeTenant()}}
	svc := tenants.NewService(repo, nil)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "tenant-1", tenants.UpdateInput{
		Plan:   tenants.PlanEnterprise,
		Status: tenants.StatusSuspended,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Plan != tenants.PlanEnterprise || updated.Status != tenants.StatusSuspended {
		t.Fatalf("update not applied: %+v", updated)
	}
	// Untouched fields survive.
	if updated.Name != "Acme Academy" || updated.Subdomain != "acme" {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}

	if _, err := svc.Update(ctx, "tenant-1", tenants.UpdateInput{Status: tenants.Status("LIMBO")}); !errors.Is(err, tenants.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestServiceIsActive(t *testing.T) {
	suspended := acmeTenant()
	suspended.ID = "tenant-2"
	suspended.Subdomain = "dormant"
	suspended.Status = tenants.StatusSuspended

	repo := &stubTenantRepo{tenants: map[string]*tenants.Tenant{
		"tenant-1": acmeTenant(),
		"tenant-2": suspended,
	}}
	svc := tenants.NewService(repo, nil)
	ctx := context.Background()

	if active, err := svc.IsActive(ctx, "tenant-1"); err != nil || !active {
		t.Fatalf("active tenant: %v %v", active, err)
	}
	if active, err := svc.IsActive(ctx, "tenant-2"); err != nil || active {
		t.Fatalf("suspended tenant: %v %v", active, err)
	}
}
