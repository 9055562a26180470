//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/database"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

var pool *pgxpool.Pool

var baseTime = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("sportsteam"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		log.Printf("failed to start postgres container: %v", err)
		return 1
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate postgres container: %v", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("failed to get connection string: %v", err)
		return 1
	}

	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Printf("failed to open pool: %v", err)
		return 1
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Printf("failed to migrate: %v", err)
		return 1
	}
	return m.Run()
}

func newUser(t *testing.T, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     gofakeit.Username(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Position:     "Unassigned",
		Status:       "Active",
		CreatedAt:    baseTime,
	}
	require.NoError(t, repository.NewUserRepository(pool).Create(context.Background(), u))
	return u
}

func newEvent(t *testing.T, capacity *int) *model.Event {
	t.Helper()
	e := &model.Event{
		ID:            uuid.NewString(),
		Title:         gofakeit.Sentence(3),
		Description:   gofakeit.Sentence(8),
		Date:          baseTime.AddDate(0, 1, 0),
		Location:      gofakeit.City(),
		Capacity:      capacity,
		Registrations: []model.Registration{},
		CreatedBy:     "admin",
		CreatedAt:     baseTime,
	}
	require.NoError(t, repository.NewEventRepository(pool).Create(context.Background(), e))
	return e
}

func registration(playerID string) model.Registration {
	return model.Registration{PlayerID: playerID, PlayerName: "p-" + playerID, RegisteredAt: baseTime}
}

func intPtr(n int) *int { return &n }

func TestEventRepositoryAppendRegistration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEventRepository(pool)
	event := newEvent(t, intPtr(2))

	e, err := repo.AppendRegistration(ctx, event.ID, registration("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.RegistrationCount())

	_, err = repo.AppendRegistration(ctx, event.ID, registration("A "))
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)

	e, err = repo.AppendRegistration(ctx, event.ID, registration("b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, []string{e.Registrations[0].PlayerID, e.Registrations[1].PlayerID})

	_, err = repo.AppendRegistration(ctx, event.ID, registration("c"))
	assert.ErrorIs(t, err, repository.ErrEventFull)

	_, err = repo.AppendRegistration(ctx, uuid.NewString(), registration("a"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepositoryConcurrentRegistrations(t *testing.T) {
	const (
		capacity = 5
		callers  = 25
	)
	ctx := context.Background()
	repo := repository.NewEventRepository(pool)
	event := newEvent(t, intPtr(capacity))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AppendRegistration(ctx, event.ID, registration(fmt.Sprintf("player-%d", i)))
			if err != nil && !errors.Is(err, repository.ErrEventFull) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	stored, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, stored.RegistrationCount())
}

func TestEventRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEventRepository(pool)
	event := newEvent(t, nil)
	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.AppendRegistration(ctx, event.ID, registration(id))
		require.NoError(t, err)
	}

	title := "Renamed"
	_, err := repo.Update(ctx, event.ID, model.EventChanges{Title: &title, Capacity: intPtr(2)})
	assert.ErrorIs(t, err, repository.ErrCapacityBelowCount)

	updated, err := repo.Update(ctx, event.ID, model.EventChanges{Title: &title, Capacity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 3, *updated.Capacity)

	updated, err = repo.Update(ctx, event.ID, model.EventChanges{Capacity: intPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, updated.Capacity)

	_, err = repo.Update(ctx, uuid.NewString(), model.EventChanges{Title: &title})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepositoryListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEventRepository(pool)
	event := newEvent(t, nil)
	playerID := uuid.NewString()
	_, err := repo.AppendRegistration(ctx, event.ID, registration(playerID))
	require.NoError(t, err)

	mine, err := repo.List(ctx, model.EventFilter{PlayerID: playerID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, event.ID, mine[0].ID)

	future := baseTime.AddDate(1, 0, 0)
	later, err := repo.List(ctx, model.EventFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, later)

	require.NoError(t, repo.Delete(ctx, event.ID))
	assert.ErrorIs(t, repo.Delete(ctx, event.ID), repository.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(pool)
	u := newUser(t, model.RolePlayer)

	dup := *u
	dup.ID = uuid.NewString()
	dup.Email = strings.ToUpper(u.Email)
	assert.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.Performance)

	p, err := repo.RecordPerformance(ctx, u.ID, func(cur model.Performance) model.Performance {
		assert.Equal(t, model.Performance{}, cur)
		cur.Fitness, cur.Technique, cur.Notes = 60, 55, "ok"
		cur.UpdatedAt, cur.UpdatedBy = baseTime, "m"
		return cur
	})
	require.NoError(t, err)
	assert.Equal(t, 60, p.Fitness)

	p, err = repo.RecordPerformance(ctx, u.ID, func(cur model.Performance) model.Performance {
		cur.Fitness = 70
		cur.UpdatedAt = baseTime.Add(time.Hour)
		return cur
	})
	require.NoError(t, err)
	assert.Equal(t, 55, p.Technique)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Performance)
	assert.Equal(t, 70, got.Performance.Fitness)
	assert.Equal(t, 55, got.Performance.Technique)

	history, err := repo.PerformanceHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 60, history[0].Fitness)

	_, err = repo.RecordPerformance(ctx, uuid.NewString(), func(cur model.Performance) model.Performance { return cur })
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryConcurrentPerformance(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(pool)
	u := newUser(t, model.RolePlayer)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.RecordPerformance(ctx, u.ID, func(cur model.Performance) model.Performance {
				cur.Fitness++
				cur.UpdatedAt = baseTime.Add(time.Duration(i) * time.Minute)
				return cur
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Performance)
	assert.Equal(t, 10, got.Performance.Fitness)

	history, err := repo.PerformanceHistory(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, history, 10)
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSessionRepository(pool)
	u := newUser(t, model.RolePlayer)

	expired := &model.Session{ID: uuid.NewString(), UserID: u.ID, Email: u.Email, Username: u.Username,
		Role: u.Role, CreatedAt: baseTime, ExpiresAt: baseTime.Add(-time.Minute)}
	live := &model.Session{ID: uuid.NewString(), UserID: u.ID, Email: u.Email, Username: u.Username,
		Role: u.Role, CreatedAt: baseTime, ExpiresAt: baseTime.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.DeleteExpired(ctx, baseTime)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	_, err = repo.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := repo.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
}

func TestTeamAndTrainingRepositories(t *testing.T) {
	ctx := context.Background()
	teams := repository.NewTeamRepository(pool)
	trainings := repository.NewTrainingRepository(pool)
	manager := newUser(t, model.RoleManager)
	other := newUser(t, model.RoleManager)
	player := newUser(t, model.RolePlayer)

	team := &model.Team{ID: uuid.NewString(), Name: "Otters", ManagerID: manager.ID, PlayerIDs: []string{}, CreatedAt: baseTime}
	require.NoError(t, teams.Create(ctx, team))

	_, err := teams.AddPlayer(ctx, team.ID, other.ID, player.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := teams.AddPlayer(ctx, team.ID, manager.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{player.ID}, got.PlayerIDs)

	_, err = teams.AddPlayer(ctx, team.ID, manager.ID, player.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyInTeam)

	byPlayer, err := teams.ListByPlayer(ctx, player.ID)
	require.NoError(t, err)
	require.Len(t, byPlayer, 1)

	training := &model.Training{
		ID: uuid.NewString(), Title: "Sprints", TeamID: team.ID, ManagerID: manager.ID,
		Start: baseTime, End: baseTime.Add(time.Hour), Location: "Track",
		Type: model.TrainingFitness, CreatedAt: baseTime,
	}
	require.NoError(t, trainings.Create(ctx, training))

	list, err := trainings.ListByTeams(ctx, []string{team.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Otters", list[0].TeamName)

	assert.ErrorIs(t, trainings.Delete(ctx, training.ID, other.ID), repository.ErrNotFound)
	require.NoError(t, trainings.Delete(ctx, training.ID, manager.ID))

	got, err = teams.RemovePlayer(ctx, team.ID, manager.ID, player.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PlayerIDs)

	_, err = teams.RemovePlayer(ctx, team.ID, manager.ID, player.ID)
	assert.ErrorIs(t, err, repository.ErrNotInTeam)
}
