package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/ports"
)

type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Create handles POST /api/v1/bookings/checkout-session/:doctorId.
// Each call starts a new provider session; clients redirect to the returned url.
//
// @Summary      Start a checkout for booking a doctor
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        doctorId  path      string  true  "Doctor ID"
// @Success      200       {object}  domain.CheckoutSession
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Failure      422       {object}  ErrorResponse
// @Failure      502       {object}  ErrorResponse
// @Router       /bookings/checkout-session/{doctorId} [post]
func (h *CheckoutHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	session, err := h.service.CreateCheckoutSession(c.Request().Context(), p, c.Param("doctorId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}
