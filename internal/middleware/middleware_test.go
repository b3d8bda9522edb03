package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUsers struct {
	getFn func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUsers) GetUser(ctx context.Context, id string) (*models.User, error) {
	return m.getFn(ctx, id)
}

func runSession(t *testing.T, users UserLookup, header string) (session.Session, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	if header != "" {
		req.Header.Set(HeaderUserID, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got session.Session
	err := Session(users)(func(c echo.Context) error {
		got = SessionFrom(c)
		fromCtx, ok := session.FromContext(c.Request().Context())
		require.True(t, ok)
		assert.Equal(t, got, fromCtx)
		return nil
	})(c)
	return got, err
}

func TestSession_StoredRole(t *testing.T) {
	users := &mockUsers{getFn: func(ctx context.Context, id string) (*models.User, error) {
		return &models.User{ID: id, Role: models.RoleFaculty}, nil
	}}

	sess, err := runSession(t, users, "prof")

	require.NoError(t, err)
	assert.Equal(t, session.New("prof", models.RoleFaculty), sess)
}

func TestSession_UnknownUserIsStandard(t *testing.T) {
	users := &mockUsers{getFn: func(ctx context.Context, id string) (*models.User, error) {
		return nil, service.ErrUserNotFound
	}}

	sess, err := runSession(t, users, "newcomer")

	require.NoError(t, err)
	assert.Equal(t, models.RoleStandard, sess.Role)
	assert.True(t, sess.Authenticated())
}

func TestSession_MissingHeader(t *testing.T) {
	_, err := runSession(t, &mockUsers{}, "")

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestSession_StoreFailure(t *testing.T) {
	users := &mockUsers{getFn: func(ctx context.Context, id string) (*models.User, error) {
		return nil, errors.New("connection refused")
	}}

	_, err := runSession(t, users, "u1")

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}

func TestSessionFrom_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.False(t, SessionFrom(c).Authenticated())
}

func TestErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(echo.NewHTTPError(http.StatusConflict, "event has reached its capacity limit"), c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "event has reached its capacity limit", resp.Message)
}

func TestErrorHandler_PlainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(errors.New("boom"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&dto.UpsertProfileRequest{Name: "Ada", Email: "ada@campus.edu"}))

	err := v.Validate(&dto.UpsertProfileRequest{Name: "Ada", Email: "not-an-email"})
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	assert.Error(t, v.Validate(&dto.SetRoleRequest{Role: "superuser"}))
	assert.Error(t, v.Validate(&dto.CreateEventRequest{Name: "Talk"}))
}
