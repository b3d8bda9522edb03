package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/config"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/testutil"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/ticket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func (c apiClient) do(method, path, user string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

// TestAPI_FullFlow drives the HTTP API from profile creation through
// registration, ticket issuance and check-in.
func TestAPI_FullFlow(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	a, err := newApp(&config.Config{TxMaxAttempts: 5, TxRetryDelay: time.Millisecond}, db, nil)
	require.NoError(t, err)
	api := apiClient{t: t, e: newServer(a)}

	t.Run("Health", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)
	})

	t.Run("MissingIdentity", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/events", "", nil).Code)
	})

	for _, id := range []string{"prof", "stu-a", "stu-b", "stu-c"} {
		rec := api.do(http.MethodPut, "/api/v1/me", id, dto.UpsertProfileRequest{Name: "User " + id, Email: id + "@campus.edu"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	t.Run("StandardUserCannotCreateEvent", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/events", "prof", map[string]any{"name": "Talk", "starts_at": "2026-11-20T17:00:00Z"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	rec := api.do(http.MethodPut, "/api/v1/admin/users/prof/role", "admin", dto.SetRoleRequest{Role: "faculty"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/v1/events", "prof", map[string]any{
		"name":           "Golang Workshop",
		"starts_at":      "2026-11-20T17:00:00Z",
		"capacity_limit": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var event dto.EventResponse
	decode(t, rec, &event)
	base := "/api/v1/events/" + event.ID

	t.Run("Register", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, base+"/registrations", "stu-a", nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodPost, base+"/registrations", "stu-a", nil).Code)
		assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, base+"/registrations", "stu-b", nil).Code)
		assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, base+"/registrations", "stu-c", nil).Code)
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, base+"/registrations", "stu-c", dto.RegisterRequest{UserID: "stu-b"}).Code)

		var got dto.EventResponse
		decode(t, api.do(http.MethodGet, base, "stu-c", nil), &got)
		assert.Equal(t, 2, got.AttendeeCount)
		require.NotNil(t, got.SeatsLeft)
		assert.Equal(t, 0, *got.SeatsLeft)
	})

	t.Run("IssueTicket", func(t *testing.T) {
		rec := api.do(http.MethodPost, base+"/tickets/stu-a", "stu-a", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var tk dto.TicketResponse
		decode(t, rec, &tk)
		assert.NotEmpty(t, tk.Payload)

		var st dto.TicketStateResponse
		decode(t, api.do(http.MethodGet, base+"/tickets/stu-a", "stu-a", nil), &st)
		assert.Equal(t, models.TicketRedeemed, st.State)

		assert.Equal(t, http.StatusConflict, api.do(http.MethodDelete, base+"/registrations/stu-a", "stu-a", nil).Code)
	})

	t.Run("CheckIn", func(t *testing.T) {
		codec, err := ticket.NewCodec(nil)
		require.NoError(t, err)
		payload, err := codec.Encode(event.ID, "stu-b")
		require.NoError(t, err)

		outcome := func(user, p string) models.CheckInOutcome {
			rec := api.do(http.MethodPost, "/api/v1/checkins", user, dto.CheckInRequest{Payload: p})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var resp dto.CheckInResponse
			decode(t, rec, &resp)
			return resp.Outcome
		}

		assert.Equal(t, models.OutcomeCheckInSuccess, outcome("prof", payload))
		assert.Equal(t, models.OutcomeAlreadyRedeemed, outcome("prof", payload))
		assert.Equal(t, models.OutcomeInvalidTicket, outcome("prof", "not a ticket"))
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/v1/checkins", "stu-c", dto.CheckInRequest{Payload: payload}).Code)
	})

	t.Run("UserMapping", func(t *testing.T) {
		var resp dto.UserRegistrationsResponse
		decode(t, api.do(http.MethodGet, "/api/v1/users/stu-b/registrations", "stu-b", nil), &resp)
		assert.Equal(t, map[string]bool{event.ID: true}, resp.Registrations)
	})

	t.Run("Attendees", func(t *testing.T) {
		var regs []dto.RegistrationResponse
		decode(t, api.do(http.MethodGet, base+"/registrations", "prof", nil), &regs)
		assert.Len(t, regs, 2)
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, base+"/registrations", "stu-c", nil).Code)
	})

	t.Run("DeleteEvent", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, base, "prof", nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, base, "prof", nil).Code)

		var resp dto.UserRegistrationsResponse
		decode(t, api.do(http.MethodGet, "/api/v1/users/stu-b/registrations", "stu-b", nil), &resp)
		assert.Empty(t, resp.Registrations)
	})
}
