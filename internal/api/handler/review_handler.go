package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List handles GET /api/v1/reviews and GET /api/v1/doctors/:id/reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Doctor ID"
// @Success      200  {object}  listResponse[domain.Review]
// @Failure      404  {object}  ErrorResponse
// @Router       /doctors/{id}/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.service.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList[*domain.Review](reviews))
}

// Create handles POST /api/v1/doctors/:id/reviews.
//
// @Summary      Review a doctor
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Doctor ID"
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /doctors/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rv, err := h.service.Create(c.Request().Context(), p, ports.CreateReviewInput{
		DoctorID:   c.Param("id"),
		ReviewText: req.ReviewText,
		Rating:     req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rv)
}
