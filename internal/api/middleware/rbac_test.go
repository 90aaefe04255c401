package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/domain"
)

func newRestrictedEcho(roles ...domain.Role) *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRoles(Authenticate(newStubAuth()), roles...)...)
	return e
}

func TestRequireRoles_DoctorOnly(t *testing.T) {
	e := newRestrictedEcho(domain.RoleDoctor)

	if rec := serve(e, http.MethodGet, "/", "Bearer doctor-token"); rec.Code != http.StatusOK {
		t.Fatalf("doctor: expected 200, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/", "Bearer patient-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("patient: expected 403, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/", "Bearer admin-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("admin: expected 403, got %d", rec.Code)
	}
}

func TestRequireRoles_AuthenticatesFirst(t *testing.T) {
	e := newRestrictedEcho(domain.RoleDoctor)

	if rec := serve(e, http.MethodGet, "/", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before any role check, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/", "Bearer forged"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}
}

func TestRequireRoles_MultipleRoles(t *testing.T) {
	e := newRestrictedEcho(domain.RolePatient, domain.RoleAdmin)

	for _, tok := range []string{"patient-token", "admin-token"} {
		if rec := serve(e, http.MethodGet, "/", "Bearer "+tok); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tok, rec.Code)
		}
	}
}

func TestRequireRoles_WiringPanics(t *testing.T) {
	authn := Authenticate(newStubAuth())
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil authenticator", func() { RequireRoles(nil, domain.RoleDoctor) }},
		{"no roles", func() { RequireRoles(authn) }},
		{"unknown role", func() { RequireRoles(authn, domain.Role("nurse")) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tc.fn()
		})
	}
}

func TestRestrict_WithoutPrincipal(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	}, restrict(domain.NewRoleSet(domain.RoleDoctor)))

	if rec := serve(e, http.MethodGet, "/", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
