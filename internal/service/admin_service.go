package service

import (
	"context"
	"strings"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/juju/errors"
	"golang.org/x/text/cases"
)

type AdminService interface {
	LookupByEmail(ctx context.Context, sess session.Session, email string) (*models.User, error)
	SetRole(ctx context.Context, sess session.Session, userID string, role models.Role) (*models.User, error)
	ListByRole(ctx context.Context, sess session.Session, role models.Role) ([]models.User, error)
	ListAll(ctx context.Context, sess session.Session, query string) ([]models.User, error)
}

type adminService struct {
	userRepo  repository.UserRepository
	publisher Publisher
}

func NewAdminService(userRepo repository.UserRepository, publisher Publisher) AdminService {
	return &adminService{userRepo: userRepo, publisher: publisher}
}

func requireAdmin(sess session.Session) error {
	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	if !sess.IsAdmin() {
		return errors.Annotatef(ErrForbidden, "user %q is %s", sess.UserID, sess.Role)
	}
	return nil
}

func (s *adminService) LookupByEmail(ctx context.Context, sess session.Session, email string) (*models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByEmail(ctx, nil, email)
	if err != nil {
		return nil, classify(notFound(err, ErrUserNotFound, "email %q", email))
	}
	return user, nil
}

// SetRole overwrites the user's role unconditionally.
func (s *adminService) SetRole(ctx context.Context, sess session.Session, userID string, role models.Role) (*models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, errors.Annotatef(ErrInvalidRole, "%q", role)
	}
	if err := s.userRepo.UpdateRole(ctx, nil, userID, role); err != nil {
		return nil, classify(notFound(err, ErrUserNotFound, "user %q", userID))
	}
	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, classify(notFound(err, ErrUserNotFound, "user %q", userID))
	}

	logger.Infof("user %s set role of %s to %s", sess.UserID, userID, role)
	publish(s.publisher, KeyUserRoleChanged, RoleChangedMessage{UserID: userID, Role: string(role), ChangedBy: sess.UserID})
	return user, nil
}

func (s *adminService) ListByRole(ctx context.Context, sess session.Session, role models.Role) ([]models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, errors.Annotatef(ErrInvalidRole, "%q", role)
	}
	users, err := s.userRepo.FindAll(ctx, nil, &role)
	if err != nil {
		return nil, classify(err)
	}
	return users, nil
}

func (s *adminService) ListAll(ctx context.Context, sess session.Session, query string) ([]models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx, nil, nil)
	if err != nil {
		return nil, classify(err)
	}
	return FilterUsers(users, query), nil
}

// FilterUsers keeps users whose name or email contains query, ignoring case.
// An empty query keeps everyone.
func FilterUsers(users []models.User, query string) []models.User {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return users
	}
	matched := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(fold.String(u.Name), q) || strings.Contains(fold.String(u.Email), q) {
			matched = append(matched, u)
		}
	}
	return matched
}
