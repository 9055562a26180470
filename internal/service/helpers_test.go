package service

import (
	"context"
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
)

var testNow = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store   *memstore.Store
	clock   *clockwork.FakeClock
	events  *EventService
	auth    *AuthService
	teams   *TeamService
	players *PlayerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	clock := clockwork.NewFakeClockAt(testNow)
	logger := zerolog.Nop()

	return &testEnv{
		store:   store,
		clock:   clock,
		events:  NewEventService(store.Events, store.Users, clock, metrics.NewNoop(), logger),
		auth:    NewAuthService(store.Users, store.Sessions, clock, time.Hour, logger),
		teams:   NewTeamService(store.Teams, store.Trainings, store.Users, clock, logger),
		players: NewPlayerService(store.Users, store.Teams, store.Events, clock, logger),
	}
}

// addUser stores an account directly, skipping password hashing.
func (e *testEnv) addUser(t *testing.T, role model.Role) model.Identity {
	t.Helper()
	u := &model.User{
		ID:        uuid.NewString(),
		Username:  gofakeit.Username(),
		Email:     uuid.NewString() + "@example.com",
		Role:      role,
		Position:  "Unassigned",
		Status:    "Active",
		CreatedAt: testNow,
	}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return model.Identity{UserID: u.ID, Email: u.Email, Username: u.Username, Role: role}
}

func (e *testEnv) createEvent(t *testing.T, admin model.Identity, capacity *int) *model.Event {
	t.Helper()
	event, err := e.events.CreateEvent(context.Background(), admin, model.CreateEventRequest{
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Sentence(8),
		Date:        "2025-07-01",
		Time:        "18:00",
		Location:    gofakeit.City(),
		Capacity:    capacity,
	})
	require.NoError(t, err)
	return event
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
