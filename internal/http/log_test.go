package handlers_test

import (
	"net/http"
	"testing"

	"gymsite/internal/domain"
)

func TestAccessDeniedIsLogged(t *testing.T) {
	env := newEnv(t, envOpts{})
	if err := env.users.BindSession("sid-member", "u-member"); err != nil {
		t.Fatal(err)
	}
	entries := captureLogs(t, func() {
		env.do(t, "DELETE", "/api/v1/admin/products/m1", "sid-member", nil, nil)
	})
	if _, ok := hasAction(entries, "access.denied.admin"); !ok {
		t.Fatalf("expected access.denied.admin log, got %+v", entries)
	}
	if _, ok := env.gw.Product("m1"); !ok {
		t.Fatal("product deleted by non-admin")
	}
}

func TestAdminWritesAreAudited(t *testing.T) {
	env := newEnv(t, envOpts{})
	sid := env.adminSID(t)
	entries := captureLogs(t, func() {
		env.do(t, "PUT", "/api/v1/admin/products/m1", sid, domain.Product{Title: "Tee 1", Price: 31}, nil)
	})
	e, ok := hasAction(entries, "admin.product.save")
	if !ok {
		t.Fatalf("expected admin.product.save, got %+v", entries)
	}
	if e.Level != "audit" || e.UserID != "u-admin" || e.Fields["product"] != "m1" {
		t.Fatalf("audit entry: %+v", e)
	}
}

func TestValidationFailureIsLogged(t *testing.T) {
	env := newEnv(t, envOpts{})
	entries := captureLogs(t, func() {
		resp := env.do(t, "GET", "/api/v1/search?q=%3Cscript%3E", "", nil, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("want 400, got %d", resp.StatusCode)
		}
	})
	if _, ok := hasAction(entries, "validation.fail"); !ok {
		t.Fatalf("expected validation.fail log, got %+v", entries)
	}
}
