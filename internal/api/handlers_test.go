package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parispub/internal/db"
	"parispub/internal/entities"
	apperrors "parispub/internal/errors"
	"parispub/internal/service"
)

type mockBooker struct{ mock.Mock }

func (m *mockBooker) Availability(ctx context.Context, q entities.AvailabilityQuery) []string {
	args := m.Called(q)
	return args.Get(0).([]string)
}

func (m *mockBooker) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.ReservationResult, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*entities.ReservationResult)
	return res, args.Error(1)
}

type mockAdmin struct{ mock.Mock }

func (m *mockAdmin) ListReservations(ctx context.Context, date string) ([]db.Reservation, error) {
	args := m.Called(date)
	rows, _ := args.Get(0).([]db.Reservation)
	return rows, args.Error(1)
}

func (m *mockAdmin) DeleteReservation(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(username, password string) (string, error) {
	args := m.Called(username, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) ParseToken(token string) (jwt.MapClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(jwt.MapClaims)
	return claims, args.Error(1)
}

var _ service.AdminAuthService = (*mockAuth)(nil)

type fixture struct {
	booker *mockBooker
	admin  *mockAdmin
	auth   *mockAuth
	router http.Handler
}

func newFixture() *fixture {
	f := &fixture{booker: &mockBooker{}, admin: &mockAdmin{}, auth: &mockAuth{}}
	f.auth.On("ParseToken", "good").Return(jwt.MapClaims{"user": "admin"}, nil).Maybe()
	f.auth.On("ParseToken", mock.Anything).Return(nil, errors.New("invalid")).Maybe()
	f.router = NewRouter(RouterConfig{
		Reservations: NewUserReservationHandler(f.booker, nil),
		Admin:        NewAdminHandler(f.admin, nil),
		AdminAuth:    NewAdminAuthHandler(f.auth),
		Tokens:       f.auth,
		CORSOrigins:  []string{"http://localhost:5173"},
	})
	return f
}

func (f *fixture) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running", rec.Body.String())
}

func TestCheckAvailabilityParsesQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  entities.AvailabilityQuery
	}{
		{"all params", "?date=2025-09-17&partySize=5&durationSlots=2", entities.AvailabilityQuery{Date: "2025-09-17", PartySize: 5, DurationSlots: 2}},
		{"defaults", "?date=2025-09-17", entities.AvailabilityQuery{Date: "2025-09-17", PartySize: 1, DurationSlots: 1}},
		{"non-numeric duration", "?date=2025-09-17&partySize=2&durationSlots=abc", entities.AvailabilityQuery{Date: "2025-09-17", PartySize: 2, DurationSlots: 1}},
		{"non-numeric party", "?date=2025-09-17&partySize=many", entities.AvailabilityQuery{Date: "2025-09-17", PartySize: 0, DurationSlots: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.booker.On("Availability", tt.want).Return([]string{"11:00", "11:30"}).Once()

			rec := f.do(http.MethodGet, "/api/availability"+tt.query, "", "")
			require.Equal(t, http.StatusOK, rec.Code)

			var body entities.AvailabilityResponse
			decode(t, rec, &body)
			assert.Equal(t, []string{"11:00", "11:30"}, body.Slots)
			f.booker.AssertExpectations(t)
		})
	}
}

func TestCheckAvailabilityEmptyIsArray(t *testing.T) {
	f := newFixture()
	f.booker.On("Availability", mock.Anything).Return([]string{})

	rec := f.do(http.MethodGet, "/api/availability?date=2025-09-16", "", "")
	assert.JSONEq(t, `{"slots":[]}`, rec.Body.String())
}

func TestCreateReservation(t *testing.T) {
	f := newFixture()
	f.booker.On("CreateReservation", mock.MatchedBy(func(r *entities.ReservationRequest) bool {
		return r.Name == "Ana" && r.PartySize != nil && *r.PartySize == 5 && r.DurationSlots == nil
	})).Return(&entities.ReservationResult{OK: true, Count: 1, BookingRef: "ref"}, nil)

	rec := f.do(http.MethodPost, "/api/reservations",
		`{"name":"Ana","email":"a@x.fr","phone":"+336","date":"2025-09-17","time":"17:30","partySize":5}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true,"count":1,"bookingRef":"ref"}`, rec.Body.String())
}

func TestCreateReservationErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"slot full", apperrors.NewBookingError(apperrors.KindSlotFull), http.StatusConflict, `{"message":"Slot full","reason":"slot_full"}`},
		{"too soon", apperrors.NewBookingError(apperrors.KindTooSoon), http.StatusBadRequest, `{"message":"Bookings must be made at least one day in advance","reason":"too_soon"}`},
		{"closed", apperrors.NewBookingError(apperrors.KindClosed), http.StatusBadRequest, `{"message":"Closed on this day","reason":"closed"}`},
		{"storage", errors.New("commit reservation: conn reset"), http.StatusInternalServerError, `{"message":"server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.booker.On("CreateReservation", mock.Anything).Return(nil, tt.err)

			rec := f.do(http.MethodPost, "/api/reservations", `{"name":"Ana"}`, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestCreateReservationBadBody(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodPost, "/api/reservations", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.booker.AssertNotCalled(t, "CreateReservation", mock.Anything)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/reservations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodDelete, "/api/reservations/1", "", "bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.admin.AssertNotCalled(t, "DeleteReservation", mock.Anything)
}

func TestAdminListReservations(t *testing.T) {
	f := newFixture()
	f.admin.On("ListReservations", "2025-09-17").Return([]db.Reservation{{ID: 7, Date: "2025-09-17", Time: "18:00"}}, nil)

	rec := f.do(http.MethodGet, "/api/reservations?date=2025-09-17", "", "good")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []db.Reservation
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].ID)
}

func TestAdminListReservationsFailure(t *testing.T) {
	f := newFixture()
	f.admin.On("ListReservations", "").Return(nil, errors.New("db down"))

	rec := f.do(http.MethodGet, "/api/reservations", "", "good")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminDeleteAlwaysOK(t *testing.T) {
	f := newFixture()
	f.admin.On("DeleteReservation", int64(42)).Return(nil)

	rec := f.do(http.MethodDelete, "/api/reservations/42", "", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = f.do(http.MethodDelete, "/api/reservations/not-an-id", "", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	f.admin.AssertNumberOfCalls(t, "DeleteReservation", 1)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	f.auth.On("Login", "admin", "pw").Return("signed", nil)
	f.auth.On("Login", "admin", "nope").Return("", service.ErrInvalidCredentials)

	rec := f.do(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"signed"}`, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Bad credentials"}`, rec.Body.String())
}

func TestMe(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/auth/me", "", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"user":"admin"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSAllowList(t *testing.T) {
	f := newFixture()
	f.booker.On("Availability", mock.Anything).Return([]string{})

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-09-17", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-09-17", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
