package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

// PrincipalKey is the echo.Context key holding the authenticated principal.
const PrincipalKey = "principal"

// Authenticate verifies the bearer token and attaches the principal to both
// the echo context and the request context. Every failure produces the same
// 401 response.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	if auth == nil {
		panic("middleware: Authenticate requires an auth service")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return errUnauthorized()
			}

			req := c.Request()
			p, err := auth.Authenticate(req.Context(), token)
			if err != nil {
				return errUnauthorized()
			}

			c.Set(PrincipalKey, p)
			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func errUnauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
