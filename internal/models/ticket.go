package models

type TicketState string

const (
	TicketNotRegistered TicketState = "not_registered"
	TicketUnredeemed    TicketState = "registered_unredeemed"
	TicketRedeemed      TicketState = "redeemed"
)

// CheckInOutcome is the single result reported to the operator for one scan.
type CheckInOutcome string

const (
	OutcomeInvalidTicket         CheckInOutcome = "invalid_ticket"
	OutcomeUserNotFound          CheckInOutcome = "user_not_found"
	OutcomeNotRegisteredForEvent CheckInOutcome = "not_registered_for_event"
	OutcomeAlreadyRedeemed       CheckInOutcome = "already_redeemed"
	OutcomeCheckInSuccess        CheckInOutcome = "check_in_success"
)
