package dto

import (
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
)

type EventResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartsAt      time.Time `json:"starts_at"`
	CapacityLimit *int      `json:"capacity_limit"`
	AttendeeCount int       `json:"attendee_count"`
	SeatsLeft     *int      `json:"seats_left,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type RegistrationResponse struct {
	ID         string        `json:"id"`
	EventID    string        `json:"event_id"`
	UserID     string        `json:"user_id"`
	Redeemed   bool          `json:"redeemed"`
	RedeemedAt *time.Time    `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	User       *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type UserRegistrationsResponse struct {
	UserID        string          `json:"user_id"`
	Registrations map[string]bool `json:"registrations"`
}

type TicketStateResponse struct {
	EventID string             `json:"event_id"`
	UserID  string             `json:"user_id"`
	State   models.TicketState `json:"state"`
}

type TicketResponse struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	Payload    string    `json:"payload"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

type CheckInResponse struct {
	Outcome models.CheckInOutcome `json:"outcome"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToEventResponse(e *models.Event) EventResponse {
	resp := EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		Description:   e.Description,
		Location:      e.Location,
		StartsAt:      e.StartsAt,
		CapacityLimit: e.CapacityLimit,
		AttendeeCount: e.AttendeeCount,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
	if e.CapacityLimit != nil {
		left := max(*e.CapacityLimit-e.AttendeeCount, 0)
		resp.SeatsLeft = &left
	}
	return resp
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:         r.ID,
		EventID:    r.EventID,
		UserID:     r.UserID,
		Redeemed:   r.Redeemed,
		RedeemedAt: r.RedeemedAt,
		CreatedAt:  r.CreatedAt,
	}
	if r.User != nil {
		u := ToUserResponse(r.User)
		resp.User = &u
	}
	return resp
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ToTicketResponse(t *service.IssuedTicket) TicketResponse {
	return TicketResponse{
		EventID:    t.EventID,
		UserID:     t.UserID,
		Payload:    t.Payload,
		RedeemedAt: t.RedeemedAt,
	}
}
