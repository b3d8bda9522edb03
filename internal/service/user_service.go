package service

import (
	"context"
	"strings"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/juju/errors"
	"gorm.io/gorm"
)

type UserService interface {
	UpsertProfile(ctx context.Context, sess session.Session, name, email string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	Registrations(ctx context.Context, sess session.Session, userID string) (map[string]bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	regRepo  repository.RegistrationRepository
	policy   RetryPolicy
}

func NewUserService(userRepo repository.UserRepository, regRepo repository.RegistrationRepository, policy RetryPolicy) UserService {
	return &userService{userRepo: userRepo, regRepo: regRepo, policy: policy.normalized()}
}

// UpsertProfile records the caller's profile. New users start as standard;
// the role is never changed here.
func (s *userService) UpsertProfile(ctx context.Context, sess session.Session, name, email string) (*models.User, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}

	var user *models.User
	err := runTx(ctx, s.userRepo.GetDB(), s.policy, func(tx *gorm.DB) error {
		existing, err := s.userRepo.FindByID(ctx, tx, sess.UserID)
		switch {
		case err == nil:
			existing.Name = strings.TrimSpace(name)
			existing.Email = models.NormalizeEmail(email)
			if err := existing.Validate(); err != nil {
				return err
			}
			if err := s.userRepo.UpdateProfile(ctx, tx, existing); err != nil {
				return emailConflict(err, email)
			}
			user = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := &models.User{
				ID:    sess.UserID,
				Name:  strings.TrimSpace(name),
				Email: models.NormalizeEmail(email),
				Role:  models.RoleStandard,
			}
			if err := created.Validate(); err != nil {
				return err
			}
			if err := s.userRepo.Create(ctx, tx, created); err != nil {
				return emailConflict(err, email)
			}
			logger.Infof("created profile for user %s", created.ID)
			user = created
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, errors.Annotate(err, "upsert profile")
	}
	return user, nil
}

func emailConflict(err error, email string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Annotatef(ErrEmailTaken, "%q", email)
	}
	return err
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, classify(notFound(err, ErrUserNotFound, "user %q", id))
	}
	return user, nil
}

// Registrations returns the user's registration mapping: event id to
// whether the ticket has been redeemed. Events the user is not registered
// for are absent.
func (s *userService) Registrations(ctx context.Context, sess session.Session, userID string) (map[string]bool, error) {
	if !sess.ActsFor(userID) {
		return nil, errors.Annotatef(ErrForbidden, "registrations of %q", userID)
	}
	if _, err := s.userRepo.FindByID(ctx, nil, userID); err != nil {
		return nil, classify(notFound(err, ErrUserNotFound, "user %q", userID))
	}
	regs, err := s.regRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, classify(err)
	}
	mapping := make(map[string]bool, len(regs))
	for _, r := range regs {
		mapping[r.EventID] = r.Redeemed
	}
	return mapping, nil
}
