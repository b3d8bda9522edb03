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

type EventService interface {
	CreateEvent(ctx context.Context, sess session.Session, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	DeleteEvent(ctx context.Context, sess session.Session, id string) error
}

type eventService struct {
	eventRepo repository.EventRepository
	regRepo   repository.RegistrationRepository
	publisher Publisher
	policy    RetryPolicy
}

func NewEventService(
	eventRepo repository.EventRepository,
	regRepo repository.RegistrationRepository,
	publisher Publisher,
	policy RetryPolicy,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		publisher: publisher,
		policy:    policy.normalized(),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, sess session.Session, event *models.Event) error {
	if !sess.CanManageEvents() {
		return errors.Annotatef(ErrForbidden, "create event as %s", sess.Role)
	}

	event.ID = uuid.NewString()
	event.CreatedBy = sess.UserID
	event.AttendeeCount = 0
	event.Version = 0
	if err := event.Validate(); err != nil {
		return errors.Trace(err)
	}

	if err := s.eventRepo.Create(ctx, nil, event); err != nil {
		return errors.Annotate(classify(err), "create event")
	}

	logger.Infof("user %s created event %s (%s)", sess.UserID, event.ID, event.Name)
	publish(s.publisher, KeyEventCreated, event)
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, classify(notFound(err, ErrEventNotFound, "event %q", id))
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}
	return events, nil
}

// DeleteEvent removes the event and, in the same transaction, every
// registration for it, so no user keeps a mapping entry for a missing event.
func (s *eventService) DeleteEvent(ctx context.Context, sess session.Session, id string) error {
	var removed int64
	err := runTx(ctx, s.eventRepo.GetDB(), s.policy, func(tx *gorm.DB) error {
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, ErrEventNotFound, "event %q", id)
		}
		if !sess.IsAdmin() && sess.UserID != event.CreatedBy {
			return errors.Annotatef(ErrForbidden, "delete event %q", id)
		}
		if removed, err = s.regRepo.DeleteByEvent(ctx, tx, id); err != nil {
			return err
		}
		_, err = s.eventRepo.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return errors.Annotate(err, "delete event")
	}

	logger.Infof("user %s deleted event %s, removed %d registrations", sess.UserID, id, removed)
	publish(s.publisher, KeyEventDeleted, EventDeletedMessage{EventID: id, DeletedBy: sess.UserID, RegistrationsRemoved: removed})
	return nil
}
