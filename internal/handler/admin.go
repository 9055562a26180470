package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

// AdminHandler serves the admin overview.
type AdminHandler struct {
	auth    *service.AuthService
	players *service.PlayerService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(auth *service.AuthService, players *service.PlayerService) *AdminHandler {
	return &AdminHandler{auth: auth, players: players}
}

// Profile handles GET /api/admin/me
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Admin not found")
		return
	}
	writeData(w, http.StatusOK, user, "")
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.players.Dashboard(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Not found")
		return
	}
	writeData(w, http.StatusOK, d, "")
}
