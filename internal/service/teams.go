package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

// TeamService covers teams, their rosters and training sessions.
type TeamService struct {
	teams     TeamStore
	trainings TrainingStore
	users     UserStore
	clock     clockwork.Clock
	logger    zerolog.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(teams TeamStore, trainings TrainingStore, users UserStore, clock clockwork.Clock, logger zerolog.Logger) *TeamService {
	return &TeamService{
		teams:     teams,
		trainings: trainings,
		users:     users,
		clock:     clock,
		logger:    logger.With().Str("component", "teams").Logger(),
	}
}

// TeamInfo is a player's view of their team and its manager.
type TeamInfo struct {
	Team    *model.TeamView    `json:"team"`
	Manager *model.UserSummary `json:"manager"`
}

func requireManager(actor model.Identity) error {
	if actor.IsZero() {
		return ErrUnauthorized
	}
	if !actor.HasRole(model.RoleManager, model.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

// CreateTeam creates an empty team managed by actor.
func (s *TeamService) CreateTeam(ctx context.Context, actor model.Identity, req model.CreateTeamRequest) (*model.TeamView, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	name, err := required("name", req.Name)
	if err != nil {
		return nil, err
	}

	team := &model.Team{
		ID:        uuid.NewString(),
		Name:      name,
		ManagerID: actor.UserID,
		PlayerIDs: []string{},
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.logger.Info().Str("team_id", team.ID).Str("manager_id", actor.UserID).Msg("team created")
	return &model.TeamView{Team: *team, Players: []model.UserSummary{}}, nil
}

// ListTeams returns the teams actor manages with their players resolved.
func (s *TeamService) ListTeams(ctx context.Context, actor model.Identity) ([]model.TeamView, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	teams, err := s.teams.ListByManager(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	views := make([]model.TeamView, 0, len(teams))
	for i := range teams {
		v, err := s.view(ctx, &teams[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// GetTeam returns one of actor's teams. Teams managed by someone else are
// reported as not found.
func (s *TeamService) GetTeam(ctx context.Context, actor model.Identity, teamID string) (*model.TeamView, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	team, err := s.ownedTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, team)
}

// AddPlayer adds a player account to one of actor's teams.
func (s *TeamService) AddPlayer(ctx context.Context, actor model.Identity, teamID string, req model.TeamMemberRequest) (*model.TeamView, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	playerID, err := s.playerID(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}

	team, err := s.teams.AddPlayer(ctx, strings.TrimSpace(teamID), actor.UserID, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrAlreadyInTeam) {
			return nil, err
		}
		return nil, fmt.Errorf("add player: %w", err)
	}

	s.logger.Info().Str("team_id", team.ID).Str("player_id", playerID).Msg("player added to team")
	return s.view(ctx, team)
}

// RemovePlayer removes a player from one of actor's teams.
func (s *TeamService) RemovePlayer(ctx context.Context, actor model.Identity, teamID string, req model.TeamMemberRequest) (*model.TeamView, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	playerID := model.NormalizeID(req.PlayerID)
	if playerID == "" {
		return nil, invalid("playerId", "is required")
	}

	team, err := s.teams.RemovePlayer(ctx, strings.TrimSpace(teamID), actor.UserID, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrNotInTeam) {
			return nil, err
		}
		return nil, fmt.Errorf("remove player: %w", err)
	}

	s.logger.Info().Str("team_id", team.ID).Str("player_id", playerID).Msg("player removed from team")
	return s.view(ctx, team)
}

// AvailablePlayers lists every player account.
func (s *TeamService) AvailablePlayers(ctx context.Context, actor model.Identity) ([]model.UserSummary, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	players, err := s.users.ListByRole(ctx, model.RolePlayer)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return summaries(players), nil
}

// CreateTraining schedules a session for one of actor's teams.
func (s *TeamService) CreateTraining(ctx context.Context, actor model.Identity, req model.CreateTrainingRequest) (*model.Training, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	var errs []error
	title, err := required("title", req.Title)
	errs = append(errs, err)
	teamID, err := required("teamId", req.TeamID)
	errs = append(errs, err)
	location, err := required("location", req.Location)
	errs = append(errs, err)
	start, err := parseDateTime("startDateTime", req.StartDateTime)
	errs = append(errs, err)
	end, err := parseDateTime("endDateTime", req.EndDateTime)
	errs = append(errs, err)
	if err := firstError(errs); err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, invalid("endDateTime", "must be after startDateTime")
	}

	kind := req.Type
	if kind == "" {
		kind = model.TrainingRegular
	}
	if !kind.Valid() {
		return nil, invalid("type", "must be one of Regular, Fitness, Technical, Tactical, Recovery")
	}

	team, err := s.ownedTeam(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}

	training := &model.Training{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		TeamID:      team.ID,
		TeamName:    team.Name,
		ManagerID:   actor.UserID,
		Start:       start,
		End:         end,
		Location:    location,
		Type:        kind,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.trainings.Create(ctx, training); err != nil {
		return nil, fmt.Errorf("create training: %w", err)
	}

	s.logger.Info().Str("training_id", training.ID).Str("team_id", team.ID).Msg("training scheduled")
	return training, nil
}

// ListTrainings returns the sessions actor created, soonest first.
func (s *TeamService) ListTrainings(ctx context.Context, actor model.Identity) ([]model.Training, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	trainings, err := s.trainings.ListByManager(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	return trainings, nil
}

// DeleteTraining removes one of actor's sessions.
func (s *TeamService) DeleteTraining(ctx context.Context, actor model.Identity, trainingID string) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	if err := s.trainings.Delete(ctx, strings.TrimSpace(trainingID), actor.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete training: %w", err)
	}
	return nil
}

// PlayerTrainings returns sessions of every team actor plays in.
func (s *TeamService) PlayerTrainings(ctx context.Context, actor model.Identity) ([]model.Training, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	teams, err := s.teams.ListByPlayer(ctx, model.NormalizeID(actor.UserID))
	if err != nil {
		return nil, fmt.Errorf("list player teams: %w", err)
	}
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	trainings, err := s.trainings.ListByTeams(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	return trainings, nil
}

// PlayerTeamInfo returns the first team actor plays in and its manager.
// Both are nil when the player has no team.
func (s *TeamService) PlayerTeamInfo(ctx context.Context, actor model.Identity) (*TeamInfo, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	teams, err := s.teams.ListByPlayer(ctx, model.NormalizeID(actor.UserID))
	if err != nil {
		return nil, fmt.Errorf("list player teams: %w", err)
	}
	if len(teams) == 0 {
		return &TeamInfo{}, nil
	}

	view, err := s.view(ctx, &teams[0])
	if err != nil {
		return nil, err
	}
	info := &TeamInfo{Team: view}

	manager, err := s.users.GetByID(ctx, teams[0].ManagerID)
	switch {
	case err == nil:
		summary := manager.Summary()
		info.Manager = &summary
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("load manager: %w", err)
	}
	return info, nil
}

func (s *TeamService) ownedTeam(ctx context.Context, actor model.Identity, teamID string) (*model.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, invalid("teamId", "is required")
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	if team.ManagerID != actor.UserID {
		return nil, repository.ErrNotFound
	}
	return team, nil
}

func (s *TeamService) playerID(ctx context.Context, raw string) (string, error) {
	id := model.NormalizeID(raw)
	if id == "" {
		return "", invalid("playerId", "is required")
	}
	player, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", invalid("playerId", "does not match any account")
		}
		return "", fmt.Errorf("load player: %w", err)
	}
	if player.Role != model.RolePlayer {
		return "", invalid("playerId", "is not a player account")
	}
	return player.ID, nil
}

// view resolves a team's player IDs, keeping roster order.
func (s *TeamService) view(ctx context.Context, team *model.Team) (*model.TeamView, error) {
	users, err := s.users.ListByIDs(ctx, team.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("load team players: %w", err)
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	players := make([]model.UserSummary, 0, len(team.PlayerIDs))
	for _, id := range team.PlayerIDs {
		if u, ok := byID[id]; ok {
			players = append(players, u.Summary())
		}
	}
	return &model.TeamView{Team: *team, Players: players}, nil
}

func summaries(users []model.User) []model.UserSummary {
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out
}
