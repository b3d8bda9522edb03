package service

import (
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

const (
	ErrEventNotFound       = errors.ConstError("event not found")
	ErrUserNotFound        = errors.ConstError("user not found")
	ErrAlreadyRegistered   = errors.ConstError("user is already registered for this event")
	ErrNotRegistered       = errors.ConstError("user is not registered for this event")
	ErrCapacityExceeded    = errors.ConstError("event has reached its capacity limit")
	ErrTicketRedeemed      = errors.ConstError("ticket has already been redeemed")
	ErrConcurrencyConflict = errors.ConstError("concurrent update conflict")
	ErrForbidden           = errors.ConstError("operation not permitted for this session")
	ErrUnauthenticated     = errors.ConstError("no authenticated session")
	ErrInvalidRole         = errors.ConstError("invalid role")
	ErrEmailTaken          = errors.ConstError("email is already in use")
	ErrTransientIO         = errors.ConstError("store unavailable")
)

var domainErrors = []error{
	ErrEventNotFound,
	ErrUserNotFound,
	ErrAlreadyRegistered,
	ErrNotRegistered,
	ErrCapacityExceeded,
	ErrTicketRedeemed,
	ErrConcurrencyConflict,
	ErrForbidden,
	ErrUnauthenticated,
	ErrInvalidRole,
	ErrEmailTaken,
	ErrTransientIO,
	errors.NotValid,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// SQLSTATE serialization_failure and deadlock_detected.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// classify turns store errors into the service taxonomy. Domain errors pass
// through, optimistic-lock and serialization failures become
// ErrConcurrencyConflict, and anything else is a transient store failure.
func classify(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	if errors.Is(err, repository.ErrStaleVersion) {
		return errors.WithType(err, ErrConcurrencyConflict)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected) {
		return errors.WithType(err, ErrConcurrencyConflict)
	}
	return errors.WithType(err, ErrTransientIO)
}

// notFound maps gorm's missing-record error to the given sentinel.
func notFound(err error, sentinel errors.ConstError, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Annotatef(sentinel, format, args...)
	}
	return err
}
