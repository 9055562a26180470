package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

// PlayerService covers player profiles, performance and the admin
// dashboard.
type PlayerService struct {
	users  UserStore
	teams  TeamStore
	events EventStore
	clock  clockwork.Clock
	logger zerolog.Logger
}

// NewPlayerService constructs a PlayerService.
func NewPlayerService(users UserStore, teams TeamStore, events EventStore, clock clockwork.Clock, logger zerolog.Logger) *PlayerService {
	return &PlayerService{
		users:  users,
		teams:  teams,
		events: events,
		clock:  clock,
		logger: logger.With().Str("component", "players").Logger(),
	}
}

// GetPlayer returns any account by ID for a manager.
func (s *PlayerService) GetPlayer(ctx context.Context, actor model.Identity, playerID string) (*model.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	return s.load(ctx, playerID)
}

func (s *PlayerService) load(ctx context.Context, playerID string) (*model.User, error) {
	id := model.NormalizeID(playerID)
	if id == "" {
		return nil, invalid("playerId", "is required")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load player: %w", err)
	}
	return user, nil
}

// RecordPerformance merges req into the player's current performance,
// stores it and appends it to their history. Omitted scores keep their
// previous values. The merge runs inside the store against the latest
// stored values.
func (s *PlayerService) RecordPerformance(ctx context.Context, actor model.Identity, playerID string, req model.PerformanceRequest) (*model.Performance, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	scores := []struct {
		name string
		v    *int
	}{
		{"fitness", req.Fitness},
		{"technique", req.Technique},
		{"teamwork", req.Teamwork},
		{"consistency", req.Consistency},
		{"discipline", req.Discipline},
	}
	for _, sc := range scores {
		if sc.v != nil && (*sc.v < 0 || *sc.v > 100) {
			return nil, invalid(sc.name, "must be a number between 0 and 100")
		}
	}

	player, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Role != model.RolePlayer {
		return nil, invalid("playerId", "is not a player account")
	}

	now := s.clock.Now().UTC()
	p, err := s.users.RecordPerformance(ctx, player.ID, func(current model.Performance) model.Performance {
		next := req.Apply(current)
		next.UpdatedAt = now
		next.UpdatedBy = actor.UserID
		return next
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("record performance: %w", err)
	}

	s.logger.Info().Str("player_id", player.ID).Str("manager_id", actor.UserID).Msg("performance recorded")
	return p, nil
}

// Performance returns a player's current performance, all zeros when
// nothing has been recorded.
func (s *PlayerService) Performance(ctx context.Context, playerID string) (*model.Performance, error) {
	player, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Performance == nil {
		return &model.Performance{}, nil
	}
	return player.Performance, nil
}

// PerformanceHistory returns a player's recorded performances, oldest first.
func (s *PlayerService) PerformanceHistory(ctx context.Context, playerID string) ([]model.PerformanceRecord, error) {
	player, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	records, err := s.users.PerformanceHistory(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("performance history: %w", err)
	}
	return records, nil
}

// Dashboard gathers the counters shown to admins.
func (s *PlayerService) Dashboard(ctx context.Context, actor model.Identity) (*model.Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	teams, err := s.teams.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}
	upcoming, registrations, err := s.events.Stats(ctx, startOfDay(s.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}

	return &model.Dashboard{
		Players:        counts[model.RolePlayer],
		Managers:       counts[model.RoleManager],
		Admins:         counts[model.RoleAdmin],
		Teams:          teams,
		UpcomingEvents: upcoming,
		Registrations:  registrations,
	}, nil
}
