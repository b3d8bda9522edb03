package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/labstack/echo/v4"
)

// --- Mock EventService ---

type mockEventService struct {
	createFn func(ctx context.Context, sess session.Session, event *models.Event) error
	getFn    func(ctx context.Context, id string) (*models.Event, error)
	listFn   func(ctx context.Context) ([]models.Event, error)
	deleteFn func(ctx context.Context, sess session.Session, id string) error
}

func (m *mockEventService) CreateEvent(ctx context.Context, sess session.Session, event *models.Event) error {
	return m.createFn(ctx, sess, event)
}
func (m *mockEventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockEventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return m.listFn(ctx)
}
func (m *mockEventService) DeleteEvent(ctx context.Context, sess session.Session, id string) error {
	return m.deleteFn(ctx, sess, id)
}

// --- Mock RegistrationService ---

type mockRegistrationService struct {
	registerFn   func(ctx context.Context, sess session.Session, eventID, userID string) (*models.Registration, error)
	unregisterFn func(ctx context.Context, sess session.Session, eventID, userID string) error
	listFn       func(ctx context.Context, sess session.Session, eventID string) ([]models.Registration, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, sess session.Session, eventID, userID string) (*models.Registration, error) {
	return m.registerFn(ctx, sess, eventID, userID)
}
func (m *mockRegistrationService) Unregister(ctx context.Context, sess session.Session, eventID, userID string) error {
	return m.unregisterFn(ctx, sess, eventID, userID)
}
func (m *mockRegistrationService) ListAttendees(ctx context.Context, sess session.Session, eventID string) ([]models.Registration, error) {
	return m.listFn(ctx, sess, eventID)
}

// --- Mock TicketService ---

type mockTicketService struct {
	stateFn   func(ctx context.Context, sess session.Session, eventID, userID string) (models.TicketState, error)
	issueFn   func(ctx context.Context, sess session.Session, eventID, userID string) (*service.IssuedTicket, error)
	checkInFn func(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error)
}

func (m *mockTicketService) TicketState(ctx context.Context, sess session.Session, eventID, userID string) (models.TicketState, error) {
	return m.stateFn(ctx, sess, eventID, userID)
}
func (m *mockTicketService) IssueTicket(ctx context.Context, sess session.Session, eventID, userID string) (*service.IssuedTicket, error) {
	return m.issueFn(ctx, sess, eventID, userID)
}
func (m *mockTicketService) CheckIn(ctx context.Context, sess session.Session, payload string) (models.CheckInOutcome, error) {
	return m.checkInFn(ctx, sess, payload)
}

// --- Mock UserService ---

type mockUserService struct {
	upsertFn        func(ctx context.Context, sess session.Session, name, email string) (*models.User, error)
	getFn           func(ctx context.Context, id string) (*models.User, error)
	registrationsFn func(ctx context.Context, sess session.Session, userID string) (map[string]bool, error)
}

func (m *mockUserService) UpsertProfile(ctx context.Context, sess session.Session, name, email string) (*models.User, error) {
	return m.upsertFn(ctx, sess, name, email)
}
func (m *mockUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return m.getFn(ctx, id)
}
func (m *mockUserService) Registrations(ctx context.Context, sess session.Session, userID string) (map[string]bool, error) {
	return m.registrationsFn(ctx, sess, userID)
}

// --- Mock AdminService ---

type mockAdminService struct {
	lookupFn     func(ctx context.Context, sess session.Session, email string) (*models.User, error)
	setRoleFn    func(ctx context.Context, sess session.Session, userID string, role models.Role) (*models.User, error)
	listByRoleFn func(ctx context.Context, sess session.Session, role models.Role) ([]models.User, error)
	listAllFn    func(ctx context.Context, sess session.Session, query string) ([]models.User, error)
}

func (m *mockAdminService) LookupByEmail(ctx context.Context, sess session.Session, email string) (*models.User, error) {
	return m.lookupFn(ctx, sess, email)
}
func (m *mockAdminService) SetRole(ctx context.Context, sess session.Session, userID string, role models.Role) (*models.User, error) {
	return m.setRoleFn(ctx, sess, userID, role)
}
func (m *mockAdminService) ListByRole(ctx context.Context, sess session.Session, role models.Role) ([]models.User, error) {
	return m.listByRoleFn(ctx, sess, role)
}
func (m *mockAdminService) ListAll(ctx context.Context, sess session.Session, query string) ([]models.User, error) {
	return m.listAllFn(ctx, sess, query)
}

// --- Helpers ---

func newContext(method, target string, body io.Reader, sess session.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = middleware.NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.WithSession(c, sess)
	return c, rec
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

var (
	student = session.New("stu-1", models.RoleStudent)
	faculty = session.New("prof-1", models.RoleFaculty)
	admin   = session.New("admin-1", models.RoleAdmin)
)
