package shared_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/atlas-lms/atlas-lms/internal/shared"
	_ "github.com/atlas-lms/atlas-lms/testing"
)

func TestCSRFTokenRoundTrip(t *testing.T) {
	manager := shared.NewCSRFManager("secret")

	token, err := manager.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" || !strings.Contains(token, ".") {
		t.Fatalf("unexpected token shape: %q", token)
	}
	if err := manager.VerifyToken(token, token); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestCSRFTokensAreUnique(t *testing.T) {
	manager := shared.NewCSRFManager("secret")

	a, err := manager.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := manager.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a == b {
		t.Fatalf("tokens must be unique")
	}
}

func TestCSRFVerifyRejectsMissing(t *testing.T) {
	manager := shared.NewCSRFManager("secret")
	token, err := manager.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := manager.VerifyToken("", token); !errors.Is(err, shared.ErrCSRFTokenMissing) {
		t.Fatalf("expected ErrCSRFTokenMissing, got %v", err)
	}
	if err := manager.VerifyToken(token, ""); !errors.Is(err, shared.ErrCSRFTokenMissing) {
		t.Fatalf("expected ErrCSRFTokenMissing, got %v", err)
	}
}

func TestCSRFVerifyRejectsMismatchAndForgery(t *testing.T) {
	manager := shared.NewCSRFManager("secret")
	other := shared.NewCSRFManager("other-secret")

	token, err := manager.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, err := manager.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := manager.VerifyToken(token, second); err == nil {
		t.Fatalf("cookie and submitted token must match")
	}

	forged, err := other.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := manager.VerifyToken(forged, forged); !errors.Is(err, shared.ErrCSRFTokenMismatch) {
		t.Fatalf("foreign-signed token must be rejected, got %v", err)
	}

	if err := manager.VerifyToken("no-dot", "no-dot"); err == nil {
		t.Fatalf("malformed token must be rejected")
	}
}
