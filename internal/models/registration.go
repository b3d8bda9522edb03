package models

import "time"

// Registration links a user to an event. The set of rows for an event is its
// registered-user list; the set of rows for a user is that user's
// registration mapping, keyed by event id with Redeemed as the value.
type Registration struct {
	ID         string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	EventID    string     `gorm:"not null;type:varchar(64);uniqueIndex:idx_registration_event_user,priority:1" json:"event_id"`
	UserID     string     `gorm:"not null;type:varchar(128);uniqueIndex:idx_registration_event_user,priority:2;index" json:"user_id"`
	Redeemed   bool       `gorm:"not null;default:false" json:"redeemed"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// State returns the ticket state this registration represents.
func (r *Registration) State() TicketState {
	if r == nil {
		return TicketNotRegistered
	}
	if r.Redeemed {
		return TicketRedeemed
	}
	return TicketUnredeemed
}
