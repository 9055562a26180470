package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/metrics"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository/memstore"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

const testOrigin = "http://localhost:5173"

var testNow = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	router http.Handler
	store  *memstore.Store
	clock  *clockwork.FakeClock
	prom   *metrics.Prometheus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	clock := clockwork.NewFakeClockAt(testNow)
	prom := metrics.NewPrometheus()
	logger := zerolog.Nop()

	router := NewRouter(RouterConfig{
		Events:         service.NewEventService(store.Events, store.Users, clock, prom, logger),
		Auth:           service.NewAuthService(store.Users, store.Sessions, clock, time.Hour, logger),
		Teams:          service.NewTeamService(store.Teams, store.Trainings, store.Users, clock, logger),
		Players:        service.NewPlayerService(store.Users, store.Teams, store.Events, clock, logger),
		Metrics:        prom,
		Logger:         logger,
		AllowedOrigins: []string{testOrigin},
		Cookie:         CookieOptions{TTL: time.Hour},
	})
	return &testServer{router: router, store: store, clock: clock, prom: prom}
}

// signIn stores an account and an open session for it and returns the
// matching cookie.
func (s *testServer) signIn(t *testing.T, role model.Role) (*http.Cookie, model.Identity) {
	t.Helper()
	ctx := context.Background()
	user := &model.User{
		ID:        uuid.NewString(),
		Username:  gofakeit.Username(),
		Email:     uuid.NewString() + "@example.com",
		Role:      role,
		Position:  "Unassigned",
		Status:    "Active",
		CreatedAt: testNow,
	}
	require.NoError(t, s.store.Users.Create(ctx, user))

	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      role,
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(time.Hour),
	}
	require.NoError(t, s.store.Sessions.Create(ctx, session))

	return &http.Cookie{Name: SessionCookie, Value: session.ID}, session.Identity()
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return serve(s.router, newRawRequest(method, path, &buf, cookie))
}

func newRawRequest(method, path string, body io.Reader, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// response mirrors model.Envelope and model.ErrorResponse with the data
// left raw.
type response struct {
	Success     bool                      `json:"success"`
	Data        json.RawMessage           `json:"data"`
	Count       *int                      `json:"count"`
	Message     string                    `json:"message"`
	CurrentUser *model.RegistrationStatus `json:"currentUser"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data), string(resp.Data))
	}
	return resp
}

func (s *testServer) createEvent(t *testing.T, admin *http.Cookie, capacity *int) model.Event {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/events", model.CreateEventRequest{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Sentence(8),
		Date:        "2025-07-01",
		Location:    gofakeit.City(),
		Capacity:    capacity,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var event model.Event
	decodeResponse(t, rec, &event)
	return event
}

func intPtr(n int) *int { return &n }
