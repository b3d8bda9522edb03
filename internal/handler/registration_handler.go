package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/events/:id/registrations", h.Register)
	g.GET("/events/:id/registrations", h.ListAttendees)
	g.DELETE("/events/:id/registrations/:userId", h.Unregister)
}

// Register adds the caller, or body.user_id, to the event. Registering an
// already registered user answers 200 with the existing registration.
func (h *RegistrationHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sess := middleware.SessionFrom(c)
	userID := req.UserID
	if userID == "" {
		userID = sess.UserID
	}

	reg, err := h.svc.Register(c.Request().Context(), sess, c.Param("id"), userID)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
	case errors.Is(err, service.ErrAlreadyRegistered) && reg != nil:
		return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
	default:
		return httpError(err)
	}
}

func (h *RegistrationHandler) Unregister(c echo.Context) error {
	err := h.svc.Unregister(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RegistrationHandler) ListAttendees(c echo.Context) error {
	regs, err := h.svc.ListAttendees(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.RegistrationResponse, len(regs))
	for i, r := range regs {
		resp[i] = dto.ToRegistrationResponse(&r)
	}

	return c.JSON(http.StatusOK, resp)
}
