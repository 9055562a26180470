package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

const eventNotFound = "Event not found"

// EventHandler holds the HTTP handlers for events and registrations.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// ListEvents handles GET /api/events
// Returns all events sorted by date; ?upcoming=true hides past ones.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	upcoming := r.URL.Query().Get("upcoming") == "true"

	events, err := h.svc.ListEvents(r.Context(), upcoming)
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeList(w, events)
}

// GetEvent handles GET /api/events/{id}
// Returns the event and, for signed-in callers, their registration status.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, status, err := h.svc.GetEvent(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: event, CurrentUser: &status})
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), IdentityFrom(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeData(w, http.StatusCreated, event, "Event created successfully")
}

// UpdateEvent handles PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeData(w, http.StatusOK, event, "Event updated successfully")
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeData(w, http.StatusOK, nil, "Event deleted successfully")
}

// Register handles POST /api/events/{id}/register
// Registers the caller, or the player named in the body when the caller is
// a manager or admin. The body is optional.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Register(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	writeData(w, http.StatusOK, event, "Successfully registered for the event")
}
