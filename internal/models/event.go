package models

import (
	"strings"
	"time"

	"github.com/juju/errors"
)

type Event struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	StartsAt      time.Time `gorm:"not null" json:"starts_at"`
	CapacityLimit *int      `json:"capacity_limit"`
	AttendeeCount int       `gorm:"not null;default:0" json:"attendee_count"`
	Version       int       `gorm:"not null;default:0" json:"version"`
	CreatedBy     string    `gorm:"not null;type:varchar(128);index" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasCapacity reports whether one more registrant fits. A nil limit is unlimited.
func (e *Event) HasCapacity() bool {
	return e.CapacityLimit == nil || e.AttendeeCount < *e.CapacityLimit
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.NotValidf("event name %q", e.Name)
	}
	if e.CapacityLimit != nil && *e.CapacityLimit <= 0 {
		return errors.NotValidf("capacity limit %d", *e.CapacityLimit)
	}
	if e.AttendeeCount < 0 {
		return errors.NotValidf("attendee count %d", e.AttendeeCount)
	}
	if e.CreatedBy == "" {
		return errors.NotValidf("empty event creator")
	}
	return nil
}
