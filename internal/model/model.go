// Package model defines the core domain types for the sports team manager.
package model

import (
	"strings"
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RolePlayer  Role = "player"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Event represents a schedulable occasion players may register for.
type Event struct {
	ID            string         `json:"_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Date          time.Time      `json:"date"`
	Time          string         `json:"time,omitempty"`
	Location      string         `json:"location"`
	Capacity      *int           `json:"capacity,omitempty"`
	HostedBy      string         `json:"hostedBy,omitempty"`
	Registrations []Registration `json:"registeredPlayers"`
	CreatedBy     string         `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// RegistrationCount returns the number of registered players.
func (e *Event) RegistrationCount() int {
	return len(e.Registrations)
}

// Remaining returns the number of open places, or -1 when the event has
// no capacity limit.
func (e *Event) Remaining() int {
	if e.Capacity == nil {
		return -1
	}
	if n := *e.Capacity - len(e.Registrations); n > 0 {
		return n
	}
	return 0
}

// IsFull returns true when a capacity is set and has been reached.
func (e *Event) IsFull() bool {
	return e.Capacity != nil && len(e.Registrations) >= *e.Capacity
}

// FindRegistration returns the registration for playerID, if any.
func (e *Event) FindRegistration(playerID string) (*Registration, bool) {
	id := NormalizeID(playerID)
	for i := range e.Registrations {
		if NormalizeID(e.Registrations[i].PlayerID) == id {
			return &e.Registrations[i], true
		}
	}
	return nil, false
}

// Registration links a player to an event. It is embedded in Event and
// never updated once written.
type Registration struct {
	PlayerID     string    `json:"playerId"`
	PlayerName   string    `json:"playerName"`
	ManagerID    string    `json:"managerId,omitempty"`
	ManagerName  string    `json:"managerName,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// NormalizeID puts an identifier in the form used for equality checks.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Identity is the authenticated caller carried through a request.
type Identity struct {
	SessionID string `json:"-"`
	UserID    string `json:"_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
}

// IsZero reports whether no caller is attached.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// HasRole reports whether the identity holds any of roles.
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// Session is the server-side record behind a session cookie.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Username  string
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Identity returns the request identity stored in the session.
func (s *Session) Identity() Identity {
	return Identity{
		SessionID: s.ID,
		UserID:    s.UserID,
		Email:     s.Email,
		Username:  s.Username,
		Role:      s.Role,
	}
}

// User is an account of any role.
type User struct {
	ID           string       `json:"_id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	Position     string       `json:"position"`
	Status       string       `json:"status"`
	Performance  *Performance `json:"performance,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Summary returns the public subset of the user used in listings.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Position: u.Position,
		Status:   u.Status,
	}
}

// UserSummary is the shape embedded in team and listing responses.
type UserSummary struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Position string `json:"position,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Performance is a manager's assessment of a player. Scores are 0..100.
type Performance struct {
	Fitness     int       `json:"fitness"`
	Technique   int       `json:"technique"`
	Teamwork    int       `json:"teamwork"`
	Consistency int       `json:"consistency"`
	Discipline  int       `json:"discipline"`
	Notes       string    `json:"notes"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
}

// PerformanceRecord is one entry of a player's performance history.
type PerformanceRecord struct {
	ID       string `json:"id"`
	PlayerID string `json:"playerId"`
	Performance
}

// Team groups players under a manager.
type Team struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	ManagerID string    `json:"manager"`
	PlayerIDs []string  `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasPlayer reports whether playerID is a member of the team.
func (t *Team) HasPlayer(playerID string) bool {
	id := NormalizeID(playerID)
	for _, p := range t.PlayerIDs {
		if NormalizeID(p) == id {
			return true
		}
	}
	return false
}

// TeamView is a team with its players resolved.
type TeamView struct {
	Team
	Players []UserSummary `json:"players"`
}

// TrainingType classifies a training session.
type TrainingType string

const (
	TrainingRegular   TrainingType = "Regular"
	TrainingFitness   TrainingType = "Fitness"
	TrainingTechnical TrainingType = "Technical"
	TrainingTactical  TrainingType = "Tactical"
	TrainingRecovery  TrainingType = "Recovery"
)

// Valid reports whether t is a known training type.
func (t TrainingType) Valid() bool {
	switch t {
	case TrainingRegular, TrainingFitness, TrainingTechnical, TrainingTactical, TrainingRecovery:
		return true
	}
	return false
}

// Training is a session scheduled by a manager for one of their teams.
type Training struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	TeamID      string       `json:"teamId"`
	TeamName    string       `json:"teamName,omitempty"`
	ManagerID   string       `json:"manager"`
	Start       time.Time    `json:"startDateTime"`
	End         time.Time    `json:"endDateTime"`
	Location    string       `json:"location"`
	Type        TrainingType `json:"type"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Dashboard holds the admin overview counters.
type Dashboard struct {
	Players        int `json:"players"`
	Managers       int `json:"managers"`
	Admins         int `json:"admins"`
	Teams          int `json:"teams"`
	UpcomingEvents int `json:"upcomingEvents"`
	Registrations  int `json:"registrations"`
}
