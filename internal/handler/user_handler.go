package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.PUT("/me", h.UpsertProfile)
	g.GET("/users/:id/registrations", h.Registrations)
}

func (h *UserHandler) UpsertProfile(c echo.Context) error {
	var req dto.UpsertProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpsertProfile(c.Request().Context(), middleware.SessionFrom(c), req.Name, req.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) Registrations(c echo.Context) error {
	userID := c.Param("id")
	mapping, err := h.svc.Registrations(c.Request().Context(), middleware.SessionFrom(c), userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.UserRegistrationsResponse{UserID: userID, Registrations: mapping})
}
