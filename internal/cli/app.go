package cli

import (
	"github.com/Eursukkul/booking-microservice/checkin-service/config"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/ticket"
	"github.com/Eursukkul/booking-microservice/checkin-service/pkg/database"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

// app is the service graph shared by the subcommands.
type app struct {
	db            *gorm.DB
	events        service.EventService
	registrations service.RegistrationService
	tickets       service.TicketService
	users         service.UserService
	admin         service.AdminService
	reconciler    *service.Reconciler
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		return nil, errors.Annotatef(err, "connect to %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	return db, nil
}

// newApp wires repositories and services over db. publisher may be nil.
func newApp(cfg *config.Config, db *gorm.DB, publisher service.Publisher) (*app, error) {
	codec, err := ticket.NewCodec(cfg.TicketSigningKey)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !codec.Signed() {
		logger.Warningf("TICKET_SIGNING_KEY not set, ticket payloads are unsigned")
	}

	policy := service.RetryPolicy{
		Attempts: cfg.TxMaxAttempts,
		Delay:    cfg.TxRetryDelay,
		Clock:    clock.WallClock,
	}

	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &app{
		db:            db,
		events:        service.NewEventService(eventRepo, regRepo, publisher, policy),
		registrations: service.NewRegistrationService(eventRepo, regRepo, userRepo, publisher, policy),
		tickets:       service.NewTicketService(eventRepo, regRepo, userRepo, codec, publisher, policy),
		users:         service.NewUserService(userRepo, regRepo, policy),
		admin:         service.NewAdminService(userRepo, publisher),
		reconciler:    service.NewReconciler(eventRepo, regRepo, policy),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
