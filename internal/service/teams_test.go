package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

func TestTeamRoster(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.addUser(t, model.RoleManager)
	p1 := env.addUser(t, model.RolePlayer)
	p2 := env.addUser(t, model.RolePlayer)

	team, err := env.teams.CreateTeam(ctx, manager, model.CreateTeamRequest{Name: " Falcons "})
	require.NoError(t, err)
	assert.Equal(t, "Falcons", team.Name)
	assert.Empty(t, team.Players)

	_, err = env.teams.AddPlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: p1.UserID})
	require.NoError(t, err)
	view, err := env.teams.AddPlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: p2.UserID})
	require.NoError(t, err)
	require.Len(t, view.Players, 2)
	assert.Equal(t, p1.UserID, view.Players[0].ID)
	assert.Equal(t, p2.UserID, view.Players[1].ID)

	_, err = env.teams.AddPlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: p1.UserID})
	assert.ErrorIs(t, err, repository.ErrAlreadyInTeam)

	view, err = env.teams.RemovePlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: p1.UserID})
	require.NoError(t, err)
	require.Len(t, view.Players, 1)
	assert.Equal(t, p2.UserID, view.Players[0].ID)

	_, err = env.teams.RemovePlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: p1.UserID})
	assert.ErrorIs(t, err, repository.ErrNotInTeam)

	teams, err := env.teams.ListTeams(ctx, manager)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Len(t, teams[0].Players, 1)
}

func TestTeamAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.addUser(t, model.RoleManager)
	other := env.addUser(t, model.RoleManager)
	player := env.addUser(t, model.RolePlayer)

	team, err := env.teams.CreateTeam(ctx, owner, model.CreateTeamRequest{Name: "Owls"})
	require.NoError(t, err)

	_, err = env.teams.GetTeam(ctx, other, team.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.teams.AddPlayer(ctx, other, team.ID, model.TeamMemberRequest{PlayerID: player.UserID})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.teams.CreateTeam(ctx, player, model.CreateTeamRequest{Name: "Mine"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.teams.ListTeams(ctx, model.Identity{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.teams.AddPlayer(ctx, owner, team.ID, model.TeamMemberRequest{PlayerID: other.UserID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "playerId", verr.Field)

	_, err = env.teams.CreateTeam(ctx, owner, model.CreateTeamRequest{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestAvailablePlayers(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addUser(t, model.RoleManager)
	env.addUser(t, model.RolePlayer)
	env.addUser(t, model.RolePlayer)
	env.addUser(t, model.RoleAdmin)

	players, err := env.teams.AvailablePlayers(context.Background(), manager)
	require.NoError(t, err)
	assert.Len(t, players, 2)
	for _, p := range players {
		assert.Equal(t, model.RolePlayer, p.Role)
	}
}

func TestCreateTrainingValidation(t *testing.T) {
	valid := func(teamID string) model.CreateTrainingRequest {
		return model.CreateTrainingRequest{
			Title:         "Drills",
			TeamID:        teamID,
			StartDateTime: "2025-06-10T18:00",
			EndDateTime:   "2025-06-10T19:30",
			Location:      "Gym",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*model.CreateTrainingRequest)
		wantField string
	}{
		{name: "missing title", mutate: func(r *model.CreateTrainingRequest) { r.Title = "" }, wantField: "title"},
		{name: "missing location", mutate: func(r *model.CreateTrainingRequest) { r.Location = "" }, wantField: "location"},
		{name: "bad start", mutate: func(r *model.CreateTrainingRequest) { r.StartDateTime = "tomorrow" }, wantField: "startDateTime"},
		{name: "end before start", mutate: func(r *model.CreateTrainingRequest) { r.EndDateTime = "2025-06-10T17:00" }, wantField: "endDateTime"},
		{name: "unknown type", mutate: func(r *model.CreateTrainingRequest) { r.Type = "Yoga" }, wantField: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			manager := env.addUser(t, model.RoleManager)
			team, err := env.teams.CreateTeam(context.Background(), manager, model.CreateTeamRequest{Name: "Hawks"})
			require.NoError(t, err)

			req := valid(team.ID)
			tt.mutate(&req)
			_, err = env.teams.CreateTraining(context.Background(), manager, req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestTrainingLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.addUser(t, model.RoleManager)
	player := env.addUser(t, model.RolePlayer)
	outsider := env.addUser(t, model.RolePlayer)

	team, err := env.teams.CreateTeam(ctx, manager, model.CreateTeamRequest{Name: "Hawks"})
	require.NoError(t, err)
	_, err = env.teams.AddPlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: player.UserID})
	require.NoError(t, err)

	training, err := env.teams.CreateTraining(ctx, manager, model.CreateTrainingRequest{
		Title:         "Recovery swim",
		TeamID:        team.ID,
		StartDateTime: "2025-06-10T18:00:00Z",
		EndDateTime:   "2025-06-10T19:00:00Z",
		Location:      "Pool",
		Type:          model.TrainingRecovery,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hawks", training.TeamName)
	assert.Equal(t, time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC), training.Start)

	defaulted, err := env.teams.CreateTraining(ctx, manager, model.CreateTrainingRequest{
		Title:         "Shape",
		TeamID:        team.ID,
		StartDateTime: "2025-06-09T18:00",
		EndDateTime:   "2025-06-09T19:00",
		Location:      "Field",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TrainingRegular, defaulted.Type)

	listed, err := env.teams.ListTrainings(ctx, manager)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, defaulted.ID, listed[0].ID, "soonest first")

	mine, err := env.teams.PlayerTrainings(ctx, player)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := env.teams.PlayerTrainings(ctx, outsider)
	require.NoError(t, err)
	assert.Empty(t, none)

	other := env.addUser(t, model.RoleManager)
	assert.ErrorIs(t, env.teams.DeleteTraining(ctx, other, training.ID), repository.ErrNotFound)
	require.NoError(t, env.teams.DeleteTraining(ctx, manager, training.ID))
	assert.ErrorIs(t, env.teams.DeleteTraining(ctx, manager, training.ID), repository.ErrNotFound)
}

func TestPlayerTeamInfo(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.addUser(t, model.RoleManager)
	player := env.addUser(t, model.RolePlayer)

	info, err := env.teams.PlayerTeamInfo(ctx, player)
	require.NoError(t, err)
	assert.Nil(t, info.Team)
	assert.Nil(t, info.Manager)

	team, err := env.teams.CreateTeam(ctx, manager, model.CreateTeamRequest{Name: "Lynx"})
	require.NoError(t, err)
	_, err = env.teams.AddPlayer(ctx, manager, team.ID, model.TeamMemberRequest{PlayerID: player.UserID})
	require.NoError(t, err)

	info, err = env.teams.PlayerTeamInfo(ctx, player)
	require.NoError(t, err)
	require.NotNil(t, info.Team)
	assert.Equal(t, "Lynx", info.Team.Name)
	require.NotNil(t, info.Manager)
	assert.Equal(t, manager.UserID, info.Manager.ID)
}
