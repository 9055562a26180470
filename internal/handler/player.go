package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

// PlayerHandler serves the signed-in player's own views.
type PlayerHandler struct {
	auth    *service.AuthService
	events  *service.EventService
	teams   *service.TeamService
	players *service.PlayerService
}

// NewPlayerHandler constructs a PlayerHandler.
func NewPlayerHandler(auth *service.AuthService, events *service.EventService, teams *service.TeamService, players *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{auth: auth, events: events, teams: teams, players: players}
}

// Profile handles GET /api/player/me
func (h *PlayerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Player not found")
		return
	}
	writeData(w, http.StatusOK, user, "")
}

// Events handles GET /api/player/events
// Returns the events the caller is registered for.
func (h *PlayerHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListPlayerEvents(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeList(w, events)
}

// Trainings handles GET /api/player/training
func (h *PlayerHandler) Trainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.teams.PlayerTrainings(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Training not found")
		return
	}
	writeList(w, trainings)
}

// Performance handles GET /api/player/performance
func (h *PlayerHandler) Performance(w http.ResponseWriter, r *http.Request) {
	p, err := h.players.Performance(r.Context(), IdentityFrom(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err, "Player not found")
		return
	}
	writeData(w, http.StatusOK, p, "")
}

// PerformanceHistory handles GET /api/player/performance-history
func (h *PlayerHandler) PerformanceHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.players.PerformanceHistory(r.Context(), IdentityFrom(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, err, "Player not found")
		return
	}
	writeList(w, history)
}

// TeamInfo handles GET /api/player/team-info
func (h *PlayerHandler) TeamInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.teams.PlayerTeamInfo(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Team not found")
		return
	}
	writeData(w, http.StatusOK, info, "")
}
