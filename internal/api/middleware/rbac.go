package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/domain"
)

// RequireRoles returns the chain authenticate -> restrict(roles). The role
// check cannot be mounted on its own, so it always sees a verified principal.
// Misconfiguration panics while routes are being registered.
//
//	g.GET("/users", h.List, middleware.RequireRoles(authn, domain.RoleAdmin)...)
func RequireRoles(authn echo.MiddlewareFunc, roles ...domain.Role) []echo.MiddlewareFunc {
	if authn == nil {
		panic("middleware: RequireRoles needs an authentication middleware")
	}
	if len(roles) == 0 {
		panic("middleware: RequireRoles needs at least one role")
	}
	for _, r := range roles {
		if !r.Valid() {
			panic(fmt.Sprintf("middleware: unknown role %q", r))
		}
	}
	return []echo.MiddlewareFunc{authn, restrict(domain.NewRoleSet(roles...))}
}

func restrict(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok || p.ID == "" {
				return echo.NewHTTPError(http.StatusInternalServerError, "authorization misconfigured")
			}
			if !allowed.Contains(p.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
