package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

const (
	teamNotFound     = "Team not found"
	playerNotFound   = "Player not found"
	trainingNotFound = "Training not found"
)

// ManagerHandler serves team, training and performance management.
type ManagerHandler struct {
	teams   *service.TeamService
	players *service.PlayerService
}

// NewManagerHandler constructs a ManagerHandler.
func NewManagerHandler(teams *service.TeamService, players *service.PlayerService) *ManagerHandler {
	return &ManagerHandler{teams: teams, players: players}
}

// ListTeams handles GET /api/manager/teams
func (h *ManagerHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.ListTeams(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeList(w, teams)
}

// CreateTeam handles POST /api/manager/teams
func (h *ManagerHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	team, err := h.teams.CreateTeam(r.Context(), IdentityFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeData(w, http.StatusCreated, team, "Team created successfully")
}

// GetTeam handles GET /api/manager/teams/{teamId}
func (h *ManagerHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teams.GetTeam(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "teamId"))
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeData(w, http.StatusOK, team, "")
}

// AddPlayer handles POST /api/manager/teams/{teamId}/add-player
func (h *ManagerHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req model.TeamMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	team, err := h.teams.AddPlayer(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "teamId"), req)
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeData(w, http.StatusOK, team, "Player added to team")
}

// RemovePlayer handles POST /api/manager/teams/{teamId}/remove-player
func (h *ManagerHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	var req model.TeamMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	team, err := h.teams.RemovePlayer(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "teamId"), req)
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeData(w, http.StatusOK, team, "Player removed from team")
}

// AvailablePlayers handles GET /api/manager/available-players
func (h *ManagerHandler) AvailablePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.teams.AvailablePlayers(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, playerNotFound)
		return
	}
	writeList(w, players)
}

// GetPlayer handles GET /api/manager/players/{playerId}
func (h *ManagerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.GetPlayer(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "playerId"))
	if err != nil {
		writeServiceError(w, r, err, playerNotFound)
		return
	}
	writeData(w, http.StatusOK, player, "")
}

// GetPerformance handles GET /api/manager/players/{playerId}/performance
func (h *ManagerHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	id := IdentityFrom(r.Context())
	playerID := chi.URLParam(r, "playerId")
	if _, err := h.players.GetPlayer(r.Context(), id, playerID); err != nil {
		writeServiceError(w, r, err, playerNotFound)
		return
	}

	p, err := h.players.Performance(r.Context(), playerID)
	if err != nil {
		writeServiceError(w, r, err, playerNotFound)
		return
	}
	writeData(w, http.StatusOK, p, "")
}

// RecordPerformance handles POST /api/manager/players/{playerId}/performance
func (h *ManagerHandler) RecordPerformance(w http.ResponseWriter, r *http.Request) {
	var req model.PerformanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.players.RecordPerformance(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "playerId"), req)
	if err != nil {
		writeServiceError(w, r, err, playerNotFound)
		return
	}
	writeData(w, http.StatusOK, p, "Performance updated successfully")
}

// ListTrainings handles GET /api/manager/trainings
func (h *ManagerHandler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.teams.ListTrainings(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, trainingNotFound)
		return
	}
	writeList(w, trainings)
}

// CreateTraining handles POST /api/manager/trainings
func (h *ManagerHandler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTrainingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	training, err := h.teams.CreateTraining(r.Context(), IdentityFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeData(w, http.StatusCreated, training, "Training scheduled successfully")
}

// DeleteTraining handles DELETE /api/manager/trainings/{trainingId}
func (h *ManagerHandler) DeleteTraining(w http.ResponseWriter, r *http.Request) {
	if err := h.teams.DeleteTraining(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "trainingId")); err != nil {
		writeServiceError(w, r, err, trainingNotFound)
		return
	}
	writeData(w, http.StatusOK, nil, "Training deleted successfully")
}
