package service

import (
	"context"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/ticket"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

type TicketService interface {
	TicketState(ctx context.Context, sess session.Session, eventID, userID string) (models.TicketState, error)
	IssueTicket(ctx context.Context, sess session.Session, eventID, userID string) (*IssuedTicket, error)
	CheckIn(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error)
}

// IssuedTicket is what the holder renders as a QR code.
type IssuedTicket struct {
	EventID    string
	UserID     string
	Payload    string
	RedeemedAt time.Time
}

type ticketService struct {
	eventRepo repository.EventRepository
	regRepo   repository.RegistrationRepository
	userRepo  repository.UserRepository
	codec     *ticket.Codec
	publisher Publisher
	policy    RetryPolicy
}

func NewTicketService(
	eventRepo repository.EventRepository,
	regRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
	codec *ticket.Codec,
	publisher Publisher,
	policy RetryPolicy,
) TicketService {
	return &ticketService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		userRepo:  userRepo,
		codec:     codec,
		publisher: publisher,
		policy:    policy.normalized(),
	}
}

func (s *ticketService) TicketState(ctx context.Context, sess session.Session, eventID, userID string) (models.TicketState, error) {
	if !sess.ActsFor(userID) && !sess.CanManageEvents() {
		return "", errors.Annotatef(ErrForbidden, "ticket of user %q", userID)
	}
	if _, err := s.eventRepo.FindByID(ctx, nil, eventID); err != nil {
		return "", classify(notFound(err, ErrEventNotFound, "event %q", eventID))
	}
	reg, err := s.regRepo.Find(ctx, nil, eventID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TicketNotRegistered, nil
	}
	if err != nil {
		return "", classify(err)
	}
	return reg.State(), nil
}

// IssueTicket is the holder's "get ticket" action. It moves a registered
// ticket to redeemed and returns the payload to render; asking again for a
// redeemed ticket returns the same payload.
func (s *ticketService) IssueTicket(ctx context.Context, sess session.Session, eventID, userID string) (*IssuedTicket, error) {
	if !sess.ActsFor(userID) {
		return nil, errors.Annotatef(ErrForbidden, "issue ticket for user %q", userID)
	}

	var (
		issued  = &IssuedTicket{EventID: eventID, UserID: userID}
		changed bool
	)
	err := runTx(ctx, s.eventRepo.GetDB(), s.policy, func(tx *gorm.DB) error {
		changed = false
		if _, err := s.eventRepo.FindByID(ctx, tx, eventID); err != nil {
			return notFound(err, ErrEventNotFound, "event %q", eventID)
		}
		reg, err := s.regRepo.Find(ctx, tx, eventID, userID)
		if err != nil {
			return notFound(err, ErrNotRegistered, "user %q", userID)
		}
		if reg.Redeemed {
			if reg.RedeemedAt != nil {
				issued.RedeemedAt = *reg.RedeemedAt
			}
			return nil
		}
		now := s.policy.Clock.Now().UTC()
		if changed, err = s.regRepo.MarkRedeemed(ctx, tx, eventID, userID, now); err != nil {
			return err
		}
		issued.RedeemedAt = now
		return nil
	})
	if err != nil {
		return nil, errors.Annotatef(err, "issue ticket for %q at %q", userID, eventID)
	}

	if issued.Payload, err = s.codec.Encode(eventID, userID); err != nil {
		return nil, errors.Trace(err)
	}
	if changed {
		logger.Infof("issued ticket for user %s at event %s", userID, eventID)
		publish(s.publisher, KeyTicketIssued, TicketMessage{EventID: eventID, UserID: userID, At: issued.RedeemedAt})
	}
	return issued, nil
}

// CheckIn processes one decoded QR payload and reports exactly one outcome.
// Only store failures are returned as errors.
func (s *ticketService) CheckIn(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error) {
	if !sess.CanManageEvents() {
		return "", errors.Annotate(ErrForbidden, "check-in")
	}

	p, err := s.codec.Decode(payload)
	if err != nil {
		logger.Debugf("rejected payload from operator %s: %v", sess.UserID, err)
		return models.OutcomeInvalidTicket, nil
	}

	var (
		outcome models.CheckInOutcome
		at      time.Time
	)
	err = runTx(ctx, s.eventRepo.GetDB(), s.policy, func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, p.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = models.OutcomeUserNotFound
				return nil
			}
			return err
		}
		reg, err := s.regRepo.Find(ctx, tx, p.EventID, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = models.OutcomeNotRegisteredForEvent
				return nil
			}
			return err
		}
		if reg.Redeemed {
			outcome = models.OutcomeAlreadyRedeemed
			return nil
		}
		at = s.policy.Clock.Now().UTC()
		changed, err := s.regRepo.MarkRedeemed(ctx, tx, p.EventID, p.UserID, at)
		if err != nil {
			return err
		}
		if !changed {
			// another scanner won between the read and the update
			outcome = models.OutcomeAlreadyRedeemed
			return nil
		}
		outcome = models.OutcomeCheckInSuccess
		return nil
	})
	if err != nil {
		return "", errors.Annotatef(err, "check in %q at %q", p.UserID, p.EventID)
	}

	logger.Infof("check-in %s for user %s at event %s by %s", outcome, p.UserID, p.EventID, sess.UserID)
	if outcome == models.OutcomeCheckInSuccess {
		publish(s.publisher, KeyTicketCheckedIn, TicketMessage{
			EventID:    p.EventID,
			UserID:     p.UserID,
			OperatorID: sess.UserID,
			At:         at,
		})
	}
	return outcome, nil
}
