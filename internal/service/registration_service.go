package service

import (
	"context"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

type RegistrationService interface {
	Register(ctx context.Context, sess session.Session, eventID, userID string) (*models.Registration, error)
	Unregister(ctx context.Context, sess session.Session, eventID, userID string) error
	ListAttendees(ctx context.Context, sess session.Session, eventID string) ([]models.Registration, error)
}

type registrationService struct {
	eventRepo repository.EventRepository
	regRepo   repository.RegistrationRepository
	userRepo  repository.UserRepository
	publisher Publisher
	policy    RetryPolicy
}

func NewRegistrationService(
	eventRepo repository.EventRepository,
	regRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
	publisher Publisher,
	policy RetryPolicy,
) RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		userRepo:  userRepo,
		publisher: publisher,
		policy:    policy.normalized(),
	}
}

// Register adds userID to the event. The registration row and the event's
// attendee count are written in one transaction; the capacity check reads
// the count under the event row lock and the count update is a
// compare-and-swap on the event version, so concurrent registrations cannot
// overshoot the limit. When the user is already registered the existing
// registration is returned together with ErrAlreadyRegistered.
func (s *registrationService) Register(ctx context.Context, sess session.Session, eventID, userID string) (*models.Registration, error) {
	if !sess.ActsFor(userID) {
		return nil, errors.Annotatef(ErrForbidden, "register user %q", userID)
	}

	var (
		result *models.Registration
		count  int
	)
	err := runTx(ctx, s.eventRepo.GetDB(), s.policy, func(tx *gorm.DB) error {
		result = nil

		// 1. Lock the event row
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return notFound(err, ErrEventNotFound, "event %q", eventID)
		}
		if _, err := s.userRepo.FindByID(ctx, tx, userID); err != nil {
			return notFound(err, ErrUserNotFound, "user %q", userID)
		}

		// 2. Already on the list
		existing, err := s.regRepo.Find(ctx, tx, eventID, userID)
		if err == nil {
			result = existing
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 3. Capacity
		if !event.HasCapacity() {
			return errors.Annotatef(ErrCapacityExceeded, "event %q holds %d", eventID, *event.CapacityLimit)
		}

		// 4. Paired write
		reg := &models.Registration{
			ID:        uuid.NewString(),
			EventID:   eventID,
			UserID:    userID,
			CreatedAt: s.policy.Clock.Now().UTC(),
		}
		if err := s.regRepo.Create(ctx, tx, reg); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		if err := s.eventRepo.UpdateAttendeeCount(ctx, tx, event, event.AttendeeCount+1); err != nil {
			return err
		}
		result = reg
		count = event.AttendeeCount
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return result, err
		}
		return nil, errors.Annotatef(err, "register %q for %q", userID, eventID)
	}

	logger.Infof("registered user %s for event %s (%d attendees)", userID, eventID, count)
	publish(s.publisher, KeyRegistrationCreated, RegistrationMessage{
		EventID:       eventID,
		UserID:        userID,
		AttendeeCount: count,
		At:            result.CreatedAt,
	})
	return result, nil
}

// Unregister removes userID from the event and deletes the user's mapping
// entry for it. A redeemed ticket cannot be unregistered.
func (s *registrationService) Unregister(ctx context.Context, sess session.Session, eventID, userID string) error {
	if !sess.ActsFor(userID) {
		return errors.Annotatef(ErrForbidden, "unregister user %q", userID)
	}

	var count int
	err := runTx(ctx, s.eventRepo.GetDB(), s.policy, func(tx *gorm.DB) error {
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return notFound(err, ErrEventNotFound, "event %q", eventID)
		}

		reg, err := s.regRepo.Find(ctx, tx, eventID, userID)
		if err != nil {
			return notFound(err, ErrNotRegistered, "user %q", userID)
		}
		if reg.Redeemed {
			return ErrTicketRedeemed
		}

		if err := s.regRepo.Delete(ctx, tx, reg.ID); err != nil {
			return err
		}
		count = max(event.AttendeeCount-1, 0)
		return s.eventRepo.UpdateAttendeeCount(ctx, tx, event, count)
	})
	if err != nil {
		return errors.Annotatef(err, "unregister %q from %q", userID, eventID)
	}

	logger.Infof("unregistered user %s from event %s (%d attendees)", userID, eventID, count)
	publish(s.publisher, KeyRegistrationCancelled, RegistrationMessage{
		EventID:       eventID,
		UserID:        userID,
		AttendeeCount: count,
		At:            s.policy.Clock.Now().UTC(),
	})
	return nil
}

func (s *registrationService) ListAttendees(ctx context.Context, sess session.Session, eventID string) ([]models.Registration, error) {
	event, err := s.eventRepo.FindByID(ctx, nil, eventID)
	if err != nil {
		return nil, classify(notFound(err, ErrEventNotFound, "event %q", eventID))
	}
	if !sess.CanManageEvents() && sess.UserID != event.CreatedBy {
		return nil, errors.Annotatef(ErrForbidden, "attendees of %q", eventID)
	}
	regs, err := s.regRepo.ListByEvent(ctx, nil, eventID)
	if err != nil {
		return nil, classify(err)
	}
	return regs, nil
}
