package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/metrics"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

// MaxCapacity is the largest capacity an event may declare.
const MaxCapacity = 100_000

// EventService orchestrates event and registration operations.
type EventService struct {
	events  EventStore
	users   UserStore
	clock   clockwork.Clock
	metrics metrics.Recorder
	logger  zerolog.Logger
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(
	events EventStore,
	users UserStore,
	clock clockwork.Clock,
	recorder metrics.Recorder,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		events:  events,
		users:   users,
		clock:   clock,
		metrics: recorder,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

func requireAdmin(actor model.Identity) error {
	if actor.IsZero() {
		return ErrUnauthorized
	}
	if !actor.HasRole(model.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

func validateCapacity(c *int) (*int, error) {
	if c == nil || *c == 0 {
		return nil, nil
	}
	if *c < 0 {
		return nil, invalid("capacity", "must be a positive integer")
	}
	if *c > MaxCapacity {
		return nil, invalid("capacity", "cannot exceed %d", MaxCapacity)
	}
	n := *c
	return &n, nil
}

// CreateEvent validates the request and stores a new event created by actor.
// A missing or zero capacity means the event is unlimited.
func (s *EventService) CreateEvent(ctx context.Context, actor model.Identity, req model.CreateEventRequest) (*model.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var errs []error
	title, err := required("title", req.Title)
	errs = append(errs, err)
	description, err := required("description", req.Description)
	errs = append(errs, err)
	location, err := required("location", req.Location)
	errs = append(errs, err)
	date, err := parseDate("date", req.Date)
	errs = append(errs, err)
	capacity, err := validateCapacity(req.Capacity)
	errs = append(errs, err)
	if err := firstError(errs); err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		Date:          date,
		Time:          strings.TrimSpace(req.Time),
		Location:      location,
		Capacity:      capacity,
		HostedBy:      strings.TrimSpace(req.HostedBy),
		Registrations: []model.Registration{},
		CreatedBy:     actor.UserID,
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.metrics.EventCreated()
	s.logger.Info().Str("event_id", event.ID).Str("created_by", actor.UserID).Msg("event created")
	return event, nil
}

// ListEvents returns events sorted by date ascending. When upcoming is set,
// events dated before today are left out.
func (s *EventService) ListEvents(ctx context.Context, upcoming bool) ([]model.Event, error) {
	var f model.EventFilter
	if upcoming {
		from := startOfDay(s.clock.Now())
		f.From = &from
	}
	events, err := s.events.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetEvent returns a single event and, when actor is signed in, whether
// they are registered for it.
func (s *EventService) GetEvent(ctx context.Context, actor model.Identity, id string) (*model.Event, model.RegistrationStatus, error) {
	var status model.RegistrationStatus
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, status, invalid("id", "is required")
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, status, repository.ErrNotFound
		}
		return nil, status, fmt.Errorf("get event: %w", err)
	}

	if !actor.IsZero() {
		if reg, ok := event.FindRegistration(actor.UserID); ok {
			status.IsRegistered = true
			status.RegistrationDetails = reg
		}
	}
	return event, status, nil
}

// UpdateEvent applies a partial update on behalf of an admin.
func (s *EventService) UpdateEvent(ctx context.Context, actor model.Identity, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, invalid("", "no fields to update")
	}

	var ch model.EventChanges
	var errs []error
	for _, f := range []struct {
		name string
		in   *string
		out  **string
	}{
		{"title", req.Title, &ch.Title},
		{"description", req.Description, &ch.Description},
		{"location", req.Location, &ch.Location},
	} {
		if f.in == nil {
			continue
		}
		v, err := required(f.name, *f.in)
		errs = append(errs, err)
		*f.out = &v
	}
	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		errs = append(errs, err)
		ch.Date = &d
	}
	if req.Time != nil {
		v := strings.TrimSpace(*req.Time)
		ch.Time = &v
	}
	if req.HostedBy != nil {
		v := strings.TrimSpace(*req.HostedBy)
		ch.HostedBy = &v
	}
	if req.Capacity != nil {
		c, err := validateCapacity(req.Capacity)
		errs = append(errs, err)
		n := 0
		if c != nil {
			n = *c
		}
		ch.Capacity = &n
	}
	if err := firstError(errs); err != nil {
		return nil, err
	}

	event, err := s.events.Update(ctx, strings.TrimSpace(id), ch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, repository.ErrNotFound
		case errors.Is(err, repository.ErrCapacityBelowCount):
			return nil, invalid("capacity", "is below the current registration count")
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.logger.Info().Str("event_id", event.ID).Str("updated_by", actor.UserID).Msg("event updated")
	return event, nil
}

// DeleteEvent removes an event on behalf of an admin.
func (s *EventService) DeleteEvent(ctx context.Context, actor model.Identity, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.metrics.EventDeleted()
	s.logger.Info().Str("event_id", id).Str("deleted_by", actor.UserID).Msg("event deleted")
	return nil
}

// Register adds a registration for an event and returns the event as
// stored after the write.
//
// The registered player is the signed-in caller. Managers and admins may
// name another player account in req.PlayerID; the registration then
// records them as the player's manager. Duplicate and capacity checks are
// performed by the store together with the append.
func (s *EventService) Register(ctx context.Context, actor model.Identity, eventID string, req model.RegisterRequest) (*model.Event, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, invalid("id", "is required")
	}

	reg, err := s.registrationFor(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	event, err := s.events.AppendRegistration(ctx, eventID, reg)
	log := s.logger.With().Str("event_id", eventID).Str("player_id", reg.PlayerID).Logger()
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.metrics.RegistrationAttempt(metrics.OutcomeNotFound)
			return nil, repository.ErrNotFound
		case errors.Is(err, repository.ErrAlreadyRegistered):
			s.metrics.RegistrationAttempt(metrics.OutcomeAlreadyRegistered)
			log.Info().Msg("registration rejected: already registered")
			return nil, repository.ErrAlreadyRegistered
		case errors.Is(err, repository.ErrEventFull):
			s.metrics.RegistrationAttempt(metrics.OutcomeFull)
			log.Info().Msg("registration rejected: event full")
			return nil, repository.ErrEventFull
		}
		s.metrics.RegistrationAttempt(metrics.OutcomeError)
		return nil, fmt.Errorf("register for event: %w", err)
	}

	s.metrics.RegistrationAttempt(metrics.OutcomeRegistered)
	log.Info().Int("registrations", event.RegistrationCount()).Msg("player registered")
	return event, nil
}

func (s *EventService) registrationFor(ctx context.Context, actor model.Identity, req model.RegisterRequest) (model.Registration, error) {
	reg := model.Registration{
		PlayerID:     model.NormalizeID(actor.UserID),
		PlayerName:   actor.Username,
		RegisteredAt: s.clock.Now().UTC(),
	}

	target := model.NormalizeID(req.PlayerID)
	if target == "" || target == reg.PlayerID {
		return reg, nil
	}
	if !actor.HasRole(model.RoleManager, model.RoleAdmin) {
		return reg, ErrForbidden
	}

	player, err := s.users.GetByID(ctx, target)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reg, invalid("playerId", "does not match any account")
		}
		return reg, fmt.Errorf("load player: %w", err)
	}
	if player.Role != model.RolePlayer {
		return reg, invalid("playerId", "is not a player account")
	}

	reg.PlayerID = model.NormalizeID(player.ID)
	reg.PlayerName = player.Username
	reg.ManagerID = actor.UserID
	reg.ManagerName = actor.Username
	return reg, nil
}

// ListPlayerEvents returns the events actor is registered for.
func (s *EventService) ListPlayerEvents(ctx context.Context, actor model.Identity) ([]model.Event, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	events, err := s.events.List(ctx, model.EventFilter{PlayerID: actor.UserID})
	if err != nil {
		return nil, fmt.Errorf("list player events: %w", err)
	}
	return events, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
