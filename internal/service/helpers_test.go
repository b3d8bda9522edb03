package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/testutil"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/ticket"
	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Recording publisher ---

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// --- Fixture ---

type fixture struct {
	db        *gorm.DB
	events    repository.EventRepository
	regs      repository.RegistrationRepository
	users     repository.UserRepository
	publisher *recordingPublisher
	policy    RetryPolicy
	codec     *ticket.Codec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	codec, err := ticket.NewCodec(nil)
	require.NoError(t, err)
	return &fixture{
		db:        db,
		events:    repository.NewEventRepository(db),
		regs:      repository.NewRegistrationRepository(db),
		users:     repository.NewUserRepository(db),
		publisher: &recordingPublisher{},
		policy:    RetryPolicy{Attempts: 5, Delay: time.Millisecond, Clock: clock.WallClock},
		codec:     codec,
	}
}

func (f *fixture) registrations() RegistrationService {
	return NewRegistrationService(f.events, f.regs, f.users, f.publisher, f.policy)
}

func (f *fixture) tickets() TicketService {
	return NewTicketService(f.events, f.regs, f.users, f.codec, f.publisher, f.policy)
}

func (f *fixture) eventsSvc() EventService {
	return NewEventService(f.events, f.regs, f.publisher, f.policy)
}

func (f *fixture) usersSvc() UserService {
	return NewUserService(f.users, f.regs, f.policy)
}

func (f *fixture) admin() AdminService {
	return NewAdminService(f.users, f.publisher)
}

func (f *fixture) user(t *testing.T, id string, role models.Role) session.Session {
	t.Helper()
	u := testutil.CreateUser(t, f.db, id, role)
	return session.New(u.ID, u.Role)
}

func (f *fixture) event(t *testing.T, capacity *int) *models.Event {
	t.Helper()
	return testutil.CreateEvent(t, f.db, "organizer", capacity)
}

func (f *fixture) reload(t *testing.T, eventID string) *models.Event {
	t.Helper()
	event, err := f.events.FindByID(context.Background(), nil, eventID)
	require.NoError(t, err)
	return event
}

// assertConsistent checks that the attendee count mirrors the registered
// users and that every registered user's mapping holds the event.
func (f *fixture) assertConsistent(t *testing.T, eventID string) {
	t.Helper()
	event := f.reload(t, eventID)
	regs, err := f.regs.ListByEvent(context.Background(), nil, eventID)
	require.NoError(t, err)
	assert.Equal(t, len(regs), event.AttendeeCount, "attendee count mirrors registered users")

	for _, reg := range regs {
		mine, err := f.regs.ListByUser(context.Background(), nil, reg.UserID)
		require.NoError(t, err)
		found := false
		for _, m := range mine {
			if m.EventID == eventID {
				found = true
			}
		}
		assert.True(t, found, "user %s mapping holds event", reg.UserID)
	}
}

func (f *fixture) state(t *testing.T, eventID, userID string) models.TicketState {
	t.Helper()
	st, err := f.tickets().TicketState(context.Background(), session.System(), eventID, userID)
	require.NoError(t, err)
	return st
}
