package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/domain"
)

// principal returns the identity attached by the Authenticate middleware.
// Its absence means the route was mounted without authentication.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator registered on the Echo instance.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
