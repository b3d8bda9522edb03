package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/scanner"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/labstack/echo/v4"
)

type TicketHandler struct {
	svc      service.TicketService
	scanners *scanner.Pool
}

// NewTicketHandler serves ticket state and issuance from svc. Check-ins go
// through scanners so each operator has at most one scan in flight.
func NewTicketHandler(svc service.TicketService, scanners *scanner.Pool) *TicketHandler {
	return &TicketHandler{svc: svc, scanners: scanners}
}

func (h *TicketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/events/:id/tickets/:userId", h.GetTicket)
	g.POST("/events/:id/tickets/:userId", h.IssueTicket)
	g.POST("/checkins", h.CheckIn)
}

func (h *TicketHandler) GetTicket(c echo.Context) error {
	eventID, userID := c.Param("id"), c.Param("userId")
	state, err := h.svc.TicketState(c.Request().Context(), middleware.SessionFrom(c), eventID, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.TicketStateResponse{EventID: eventID, UserID: userID, State: state})
}

func (h *TicketHandler) IssueTicket(c echo.Context) error {
	issued, err := h.svc.IssueTicket(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToTicketResponse(issued))
}

// CheckIn answers 200 with the outcome for every processed scan.
func (h *TicketHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	outcome, err := h.scanners.Scan(c.Request().Context(), middleware.SessionFrom(c), req.Payload)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.CheckInResponse{Outcome: outcome})
}
