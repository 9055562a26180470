package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	svc    *service.AuthService
	cookie CookieOptions
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeData(w, http.StatusCreated, user, "Account created successfully")
}

// Login handles POST /api/login
// Opens a session and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, user, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	h.cookie.set(w, session.ID)
	writeData(w, http.StatusOK, user, "Login successful")
}

// Logout handles POST /api/logout
// Ends the session, if any, and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), IdentityFrom(r.Context()).SessionID); err != nil {
		writeServiceError(w, r, err, "Session not found")
		return
	}
	h.cookie.clear(w)
	writeData(w, http.StatusOK, nil, "Logged out successfully")
}

// Me handles GET /api/me
// Returns the identity stored in the caller's session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, IdentityFrom(r.Context()), "")
}
