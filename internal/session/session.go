// Package session carries the authenticated caller through service calls.
package session

import (
	"context"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
)

// Session identifies the caller of a service operation. It is built once per
// request from the verified identity and passed explicitly.
type Session struct {
	UserID string
	Role   models.Role
}

func New(userID string, role models.Role) Session {
	return Session{UserID: userID, Role: role}
}

// System is used by maintenance jobs that act outside any user request.
func System() Session {
	return Session{UserID: "system", Role: models.RoleAdmin}
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// ActsFor reports whether the caller may act on userID's own records.
func (s Session) ActsFor(userID string) bool {
	return s.Authenticated() && (s.UserID == userID || s.IsAdmin())
}

func (s Session) CanManageEvents() bool {
	return s.Authenticated() && s.Role.CanManageEvents()
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
