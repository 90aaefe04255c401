package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

type DoctorHandler struct {
	service ports.DoctorService
}

func NewDoctorHandler(service ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// List handles GET /api/v1/doctors.
//
// @Summary      List approved doctors
// @Tags         doctors
// @Produce      json
// @Param        query  query     string  false  "Match on name or specialization"
// @Success      200    {object}  listResponse[domain.Doctor]
// @Router       /doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.service.List(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList[*domain.Doctor](doctors))
}

// Get handles GET /api/v1/doctors/:id.
//
// @Summary      Get a doctor
// @Tags         doctors
// @Produce      json
// @Param        id   path      string  true  "Doctor ID"
// @Success      200  {object}  domain.Doctor
// @Failure      404  {object}  ErrorResponse
// @Router       /doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Me handles GET /api/v1/doctors/profile/me.
//
// @Summary      Current doctor's profile
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Doctor
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /doctors/profile/me [get]
func (h *DoctorHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Update handles PUT /api/v1/doctors/:id. The first call creates the profile
// in pending approval.
//
// @Summary      Create or update own doctor profile
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Doctor ID (the caller's user ID)"
// @Param        body  body      updateDoctorRequest  true  "Profile fields"
// @Success      200   {object}  domain.Doctor
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /doctors/{id} [put]
func (h *DoctorHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateDoctorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.UpdateProfile(c.Request().Context(), p, c.Param("id"), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /api/v1/doctors/:id.
//
// @Summary      Remove own doctor profile
// @Tags         doctors
// @Security     BearerAuth
// @Param        id   path  string  true  "Doctor ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /doctors/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetApproval handles PATCH /api/v1/doctors/:id/approval.
//
// @Summary      Approve or cancel a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Doctor ID"
// @Param        body  body      approvalRequest  true  "New status"
// @Success      200   {object}  domain.Doctor
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /doctors/{id}/approval [patch]
func (h *DoctorHandler) SetApproval(c echo.Context) error {
	var req approvalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.service.SetApproval(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
