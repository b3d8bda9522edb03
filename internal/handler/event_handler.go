package handler

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.ListEvents)
	g.GET("/events/:id", h.GetEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event := &models.Event{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Location:      req.Location,
		StartsAt:      req.StartsAt.UTC(),
		CapacityLimit: req.CapacityLimit,
	}

	if err := h.svc.CreateEvent(c.Request().Context(), middleware.SessionFrom(c), event); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.svc.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	if err := h.svc.DeleteEvent(c.Request().Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
