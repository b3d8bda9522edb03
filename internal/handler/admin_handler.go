package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	svc service.AdminService
}

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/admin/users", h.ListUsers)
	g.GET("/admin/users/lookup", h.LookupByEmail)
	g.PUT("/admin/users/:id/role", h.SetRole)
}

// ListUsers filters by ?role= when given, otherwise by the ?q= search text.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, sess := c.Request().Context(), middleware.SessionFrom(c)

	var (
		users []models.User
		err   error
	)
	if role := c.QueryParam("role"); role != "" {
		users, err = h.svc.ListByRole(ctx, sess, models.Role(role))
	} else {
		users, err = h.svc.ListAll(ctx, sess, c.QueryParam("q"))
	}
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.UserResponse, len(users))
	for i, u := range users {
		resp[i] = dto.ToUserResponse(&u)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) LookupByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	user, err := h.svc.LookupByEmail(c.Request().Context(), middleware.SessionFrom(c), email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *AdminHandler) SetRole(c echo.Context) error {
	var req dto.SetRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.SetRole(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), models.Role(req.Role))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
