package model

import (
	"strings"
	"time"
)

// CreateEventRequest is the payload for creating a new event.
// Date accepts YYYY-MM-DD or RFC 3339.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Capacity    *int   `json:"capacity"`
	HostedBy    string `json:"hostedBy"`
}

// UpdateEventRequest carries the fields to change; nil fields are left
// untouched.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	HostedBy    *string `json:"hostedBy"`
}

// Empty reports whether the request changes nothing.
func (r UpdateEventRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Date == nil && r.Time == nil &&
		r.Location == nil && r.Capacity == nil && r.HostedBy == nil
}

// EventChanges is a validated UpdateEventRequest ready for the store.
type EventChanges struct {
	Title       *string
	Description *string
	Date        *time.Time
	Time        *string
	Location    *string
	Capacity    *int
	HostedBy    *string
}

// RegisterRequest is the optional payload of an event registration. Only
// managers and admins may name a player other than themselves.
type RegisterRequest struct {
	PlayerID string `json:"playerId"`
}

// RegistrationStatus describes the caller's standing for one event.
type RegistrationStatus struct {
	IsRegistered        bool          `json:"isRegistered"`
	RegistrationDetails *Registration `json:"registrationDetails"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	// From, when set, excludes events dated before it.
	From *time.Time
	// PlayerID, when set, keeps only events the player is registered for.
	PlayerID string
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Position string `json:"position"`
}

// LoginRequest is the payload for opening a session.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// TeamMemberRequest names the player to add to or remove from a team.
type TeamMemberRequest struct {
	PlayerID string `json:"playerId"`
}

// CreateTrainingRequest is the payload for scheduling a training session.
type CreateTrainingRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	TeamID        string       `json:"teamId"`
	StartDateTime string       `json:"startDateTime"`
	EndDateTime   string       `json:"endDateTime"`
	Location      string       `json:"location"`
	Type          TrainingType `json:"type"`
}

// PerformanceRequest records scores for a player. Omitted scores keep
// their previous value.
type PerformanceRequest struct {
	Fitness     *int    `json:"fitness"`
	Technique   *int    `json:"technique"`
	Teamwork    *int    `json:"teamwork"`
	Consistency *int    `json:"consistency"`
	Discipline  *int    `json:"discipline"`
	Notes       *string `json:"notes"`
}

// Apply returns current with every supplied score and note overwritten.
func (r PerformanceRequest) Apply(current Performance) Performance {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&current.Fitness, r.Fitness)
	set(&current.Technique, r.Technique)
	set(&current.Teamwork, r.Teamwork)
	set(&current.Consistency, r.Consistency)
	set(&current.Discipline, r.Discipline)
	if r.Notes != nil {
		current.Notes = strings.TrimSpace(*r.Notes)
	}
	return current
}

// Envelope is the JSON shape of every successful response.
type Envelope struct {
	Success     bool                `json:"success"`
	Data        any                 `json:"data"`
	Count       *int                `json:"count,omitempty"`
	Message     string              `json:"message,omitempty"`
	CurrentUser *RegistrationStatus `json:"currentUser,omitempty"`
}

// ErrorResponse is the JSON shape of every error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
