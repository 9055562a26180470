// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
)

// ErrUnauthorized is returned when an operation needs a signed-in caller.
var ErrUnauthorized = errors.New("not authenticated")

// ErrForbidden is returned when the caller's role does not allow the action.
var ErrForbidden = errors.New("access denied")

// ErrInvalidCredentials is returned when login fails for any reason.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports a request that cannot be processed as sent.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// EventStore persists events and their embedded registrations.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	List(ctx context.Context, f model.EventFilter) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, id string, ch model.EventChanges) (*model.Event, error)
	Delete(ctx context.Context, id string) error
	AppendRegistration(ctx context.Context, eventID string, reg model.Registration) (*model.Event, error)
	Stats(ctx context.Context, from time.Time) (upcoming, registrations int, err error)
}

// UserStore persists accounts and performance data.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
	CountByRole(ctx context.Context) (map[model.Role]int, error)
	// RecordPerformance reads the current performance, passes it to apply
	// and stores the result, all under one lock on the player row.
	RecordPerformance(ctx context.Context, playerID string, apply func(model.Performance) model.Performance) (*model.Performance, error)
	PerformanceHistory(ctx context.Context, playerID string) ([]model.PerformanceRecord, error)
}

// SessionStore persists login sessions.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TeamStore persists teams.
type TeamStore interface {
	Create(ctx context.Context, t *model.Team) error
	GetByID(ctx context.Context, id string) (*model.Team, error)
	ListByManager(ctx context.Context, managerID string) ([]model.Team, error)
	ListByPlayer(ctx context.Context, playerID string) ([]model.Team, error)
	AddPlayer(ctx context.Context, teamID, managerID, playerID string) (*model.Team, error)
	RemovePlayer(ctx context.Context, teamID, managerID, playerID string) (*model.Team, error)
	Count(ctx context.Context) (int, error)
}

// TrainingStore persists training sessions.
type TrainingStore interface {
	Create(ctx context.Context, t *model.Training) error
	ListByManager(ctx context.Context, managerID string) ([]model.Training, error)
	ListByTeams(ctx context.Context, teamIDs []string) ([]model.Training, error)
	Delete(ctx context.Context, id, managerID string) error
}

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(field, "is required")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, invalid(field, "must be YYYY-MM-DD or RFC 3339")
}

// parseDateTime accepts RFC 3339 or the "YYYY-MM-DDTHH:MM" form sent by
// HTML datetime-local inputs, read as UTC.
func parseDateTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(field, "is required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid(field, "must be an RFC 3339 date-time")
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "is required")
	}
	return value, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
