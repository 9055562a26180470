// Package memstore keeps all data in process memory. It mirrors the
// behaviour of the Postgres repositories, including the atomic
// registration and team-membership guards, and is used for local runs
// without a database and in tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

// Store bundles one in-memory store per entity.
type Store struct {
	Events    *EventStore
	Users     *UserStore
	Sessions  *SessionStore
	Teams     *TeamStore
	Trainings *TrainingStore
}

// New returns an empty Store.
func New() *Store {
	teams := &TeamStore{teams: make(map[string]*model.Team)}
	return &Store{
		Events:    &EventStore{events: make(map[string]*model.Event)},
		Users:     &UserStore{users: make(map[string]*model.User), history: make(map[string][]model.PerformanceRecord)},
		Sessions:  &SessionStore{sessions: make(map[string]*model.Session)},
		Teams:     teams,
		Trainings: &TrainingStore{trainings: make(map[string]*model.Training), teams: teams},
	}
}

// EventStore is the in-memory event repository.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]*model.Event
}

func cloneEvent(e *model.Event) *model.Event {
	c := *e
	c.Registrations = slices.Clone(e.Registrations)
	if c.Registrations == nil {
		c.Registrations = []model.Registration{}
	}
	if e.Capacity != nil {
		n := *e.Capacity
		c.Capacity = &n
	}
	return &c
}

// Create stores a copy of e.
func (s *EventStore) Create(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = cloneEvent(e)
	return nil
}

// List returns the events matching f ordered by date.
func (s *EventStore) List(_ context.Context, f model.EventFilter) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Event
	for _, e := range s.events {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.PlayerID != "" {
			if _, ok := e.FindRegistration(f.PlayerID); !ok {
				continue
			}
		}
		out = append(out, *cloneEvent(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetByID returns a copy of the event or repository.ErrNotFound.
func (s *EventStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneEvent(e), nil
}

// Update applies ch to the event. Capacity may not drop below the
// current number of registrations.
func (s *EventStore) Update(_ context.Context, id string, ch model.EventChanges) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ch.Capacity != nil && *ch.Capacity > 0 && len(e.Registrations) > *ch.Capacity {
		return nil, repository.ErrCapacityBelowCount
	}

	if ch.Title != nil {
		e.Title = *ch.Title
	}
	if ch.Description != nil {
		e.Description = *ch.Description
	}
	if ch.Date != nil {
		e.Date = *ch.Date
	}
	if ch.Time != nil {
		e.Time = *ch.Time
	}
	if ch.Location != nil {
		e.Location = *ch.Location
	}
	if ch.HostedBy != nil {
		e.HostedBy = *ch.HostedBy
	}
	if ch.Capacity != nil {
		if *ch.Capacity > 0 {
			n := *ch.Capacity
			e.Capacity = &n
		} else {
			e.Capacity = nil
		}
	}
	return cloneEvent(e), nil
}

// Delete removes the event or returns repository.ErrNotFound.
func (s *EventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// AppendRegistration checks and appends under one lock, matching the
// single conditional UPDATE of the Postgres repository.
func (s *EventStore) AppendRegistration(_ context.Context, eventID string, reg model.Registration) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if _, dup := e.FindRegistration(reg.PlayerID); dup {
		return nil, repository.ErrAlreadyRegistered
	}
	if e.IsFull() {
		return nil, repository.ErrEventFull
	}
	e.Registrations = append(e.Registrations, reg)
	return cloneEvent(e), nil
}

// Stats counts events on or after from and their registrations.
func (s *EventStore) Stats(_ context.Context, from time.Time) (upcoming, registrations int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if !e.Date.Before(from) {
			upcoming++
		}
		registrations += len(e.Registrations)
	}
	return upcoming, registrations, nil
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// UserStore is the in-memory user repository.
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	history map[string][]model.PerformanceRecord
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.Performance != nil {
		p := *u.Performance
		c.Performance = &p
	}
	return &c
}

// Create stores a copy of u. Emails are unique regardless of case.
func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrEmailTaken
		}
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

// GetByID returns a copy of the user or repository.ErrNotFound.
func (s *UserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

// GetByEmail looks a user up by case-insensitive email.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListByRole returns every user with role, ordered by username.
func (s *UserStore) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListByIDs returns the users whose IDs appear in ids.
func (s *UserStore) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

// CountByRole returns the number of users per role.
func (s *UserStore) CountByRole(_ context.Context) (map[model.Role]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[model.Role]int)
	for _, u := range s.users {
		counts[u.Role]++
	}
	return counts, nil
}

// RecordPerformance applies apply to the player's current performance
// under the write lock and appends the result to their history.
func (s *UserStore) RecordPerformance(_ context.Context, playerID string, apply func(model.Performance) model.Performance) (*model.Performance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[playerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var current model.Performance
	if u.Performance != nil {
		current = *u.Performance
	}
	p := apply(current)
	stored := p
	u.Performance = &stored
	s.history[playerID] = append(s.history[playerID], model.PerformanceRecord{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		Performance: p,
	})
	return &p, nil
}

// PerformanceHistory returns a player's recorded performances, oldest first.
func (s *UserStore) PerformanceHistory(_ context.Context, playerID string) ([]model.PerformanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history[playerID]), nil
}

// SessionStore is the in-memory session repository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// Create stores a copy of sess.
func (s *SessionStore) Create(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sess
	s.sessions[sess.ID] = &c
	return nil
}

// Get returns a copy of the session or repository.ErrNotFound.
func (s *SessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *sess
	return &c, nil
}

// Delete removes the session. Unknown IDs are ignored.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteExpired removes sessions that expired at or before now.
func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TeamStore is the in-memory team repository.
type TeamStore struct {
	mu    sync.RWMutex
	teams map[string]*model.Team
}

func cloneTeam(t *model.Team) *model.Team {
	c := *t
	c.PlayerIDs = slices.Clone(t.PlayerIDs)
	if c.PlayerIDs == nil {
		c.PlayerIDs = []string{}
	}
	return &c
}

// Create stores a copy of t.
func (s *TeamStore) Create(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = cloneTeam(t)
	return nil
}

// GetByID returns a copy of the team or repository.ErrNotFound.
func (s *TeamStore) GetByID(_ context.Context, id string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTeam(t), nil
}

// ListByManager returns the teams owned by managerID.
func (s *TeamStore) ListByManager(_ context.Context, managerID string) ([]model.Team, error) {
	return s.filter(func(t *model.Team) bool { return t.ManagerID == managerID }), nil
}

// ListByPlayer returns the teams playerID belongs to.
func (s *TeamStore) ListByPlayer(_ context.Context, playerID string) ([]model.Team, error) {
	return s.filter(func(t *model.Team) bool { return slices.Contains(t.PlayerIDs, playerID) }), nil
}

func (s *TeamStore) filter(keep func(*model.Team) bool) []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Team
	for _, t := range s.teams {
		if keep(t) {
			out = append(out, *cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AddPlayer adds playerID to a team owned by managerID.
func (s *TeamStore) AddPlayer(_ context.Context, teamID, managerID, playerID string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok || t.ManagerID != managerID {
		return nil, repository.ErrNotFound
	}
	if slices.Contains(t.PlayerIDs, playerID) {
		return nil, repository.ErrAlreadyInTeam
	}
	t.PlayerIDs = append(t.PlayerIDs, playerID)
	return cloneTeam(t), nil
}

// RemovePlayer removes playerID from a team owned by managerID.
func (s *TeamStore) RemovePlayer(_ context.Context, teamID, managerID, playerID string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok || t.ManagerID != managerID {
		return nil, repository.ErrNotFound
	}
	i := slices.Index(t.PlayerIDs, playerID)
	if i < 0 {
		return nil, repository.ErrNotInTeam
	}
	t.PlayerIDs = slices.Delete(t.PlayerIDs, i, i+1)
	return cloneTeam(t), nil
}

// Count returns the number of teams.
func (s *TeamStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams), nil
}

func (s *TeamStore) name(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.teams[id]; ok {
		return t.Name
	}
	return ""
}

// TrainingStore is the in-memory training repository.
type TrainingStore struct {
	mu        sync.RWMutex
	trainings map[string]*model.Training
	teams     *TeamStore
}

// Create stores a copy of t.
func (s *TrainingStore) Create(_ context.Context, t *model.Training) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *t
	s.trainings[t.ID] = &c
	return nil
}

// ListByManager returns the trainings scheduled by managerID.
func (s *TrainingStore) ListByManager(_ context.Context, managerID string) ([]model.Training, error) {
	return s.filter(func(t *model.Training) bool { return t.ManagerID == managerID }), nil
}

// ListByTeams returns the trainings for any of teamIDs, soonest first.
func (s *TrainingStore) ListByTeams(_ context.Context, teamIDs []string) ([]model.Training, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return s.filter(func(t *model.Training) bool { return slices.Contains(teamIDs, t.TeamID) }), nil
}

func (s *TrainingStore) filter(keep func(*model.Training) bool) []model.Training {
	s.mu.RLock()
	var out []model.Training
	for _, t := range s.trainings {
		if keep(t) {
			out = append(out, *t)
		}
	}
	s.mu.RUnlock()

	for i := range out {
		out[i].TeamName = s.teams.name(out[i].TeamID)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes a training scheduled by managerID.
func (s *TrainingStore) Delete(_ context.Context, id, managerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trainings[id]
	if !ok || t.ManagerID != managerID {
		return repository.ErrNotFound
	}
	delete(s.trainings, id)
	return nil
}
