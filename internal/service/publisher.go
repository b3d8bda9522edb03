package service

import "time"

// Publisher delivers domain notifications after a transaction commits.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

const (
	KeyEventCreated          = "event.created"
	KeyEventDeleted          = "event.deleted"
	KeyRegistrationCreated   = "registration.created"
	KeyRegistrationCancelled = "registration.cancelled"
	KeyTicketIssued          = "ticket.issued"
	KeyTicketCheckedIn       = "ticket.checked_in"
	KeyUserRoleChanged       = "user.role_changed"
)

type RegistrationMessage struct {
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	AttendeeCount int       `json:"attendee_count"`
	At            time.Time `json:"at"`
}

type TicketMessage struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	OperatorID string    `json:"operator_id,omitempty"`
	At         time.Time `json:"at"`
}

type EventDeletedMessage struct {
	EventID              string `json:"event_id"`
	DeletedBy            string `json:"deleted_by"`
	RegistrationsRemoved int64  `json:"registrations_removed"`
}

type RoleChangedMessage struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ChangedBy string `json:"changed_by"`
}

// publish is best effort: the state change has already committed.
func publish(p Publisher, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(key, payload); err != nil {
		logger.Warningf("publish %s: %v", key, err)
	}
}
