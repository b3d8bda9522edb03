package dto

import "time"

type CreateEventRequest struct {
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	CapacityLimit *int      `json:"capacity_limit" validate:"omitempty,gt=0"`
}

// RegisterRequest registers UserID, or the caller when it is empty.
type RegisterRequest struct {
	UserID string `json:"user_id"`
}

type UpsertProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=standard student alumni faculty admin"`
}

type CheckInRequest struct {
	Payload string `json:"payload" validate:"required"`
}
