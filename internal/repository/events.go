package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
)

const tableEvents = "events"

var eventColumns = []any{
	"id", "title", "description", "date", "time", "location",
	"capacity", "hosted_by", "registrations", "created_by", "created_at",
}

// EventRepository handles persistence for events and their embedded
// registrations.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.Capacity, &e.HostedBy, &e.Registrations, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Registrations == nil {
		e.Registrations = []model.Registration{}
	}
	return &e, nil
}

// Create inserts a new event. The caller assigns the ID and timestamps.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	regs, err := jsonParam(e.Registrations)
	if err != nil {
		return err
	}
	if e.Registrations == nil {
		regs = "[]"
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, "date", "time", location, capacity, hosted_by, registrations, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11)`,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location,
		e.Capacity, e.HostedBy, regs, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns events matching f ordered by date ascending.
func (r *EventRepository) List(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	ds := dialect.From(tableEvents).
		Prepared(true).
		Select(eventColumns...).
		Order(goqu.C("date").Asc(), goqu.C("created_at").Asc())

	if f.From != nil {
		ds = ds.Where(goqu.C("date").Gte(*f.From))
	}
	if f.PlayerID != "" {
		probe, err := registrationProbe(f.PlayerID)
		if err != nil {
			return nil, err
		}
		ds = ds.Where(goqu.L("registrations @> ?::jsonb", probe))
	}

	query, args, err := toSQL(ds)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query, args, err := toSQL(dialect.From(tableEvents).
		Prepared(true).
		Select(eventColumns...).
		Where(goqu.C("id").Eq(id)))
	if err != nil {
		return nil, err
	}

	e, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update applies the non-nil fields of ch and returns the stored event.
// A capacity of zero removes the limit. Lowering the capacity below the
// current number of registrations fails with ErrCapacityBelowCount; the
// check and the write are one statement.
func (r *EventRepository) Update(ctx context.Context, id string, ch model.EventChanges) (*model.Event, error) {
	set := goqu.Record{}
	if ch.Title != nil {
		set["title"] = *ch.Title
	}
	if ch.Description != nil {
		set["description"] = *ch.Description
	}
	if ch.Date != nil {
		set["date"] = *ch.Date
	}
	if ch.Time != nil {
		set["time"] = *ch.Time
	}
	if ch.Location != nil {
		set["location"] = *ch.Location
	}
	if ch.HostedBy != nil {
		set["hosted_by"] = *ch.HostedBy
	}

	where := []exp.Expression{goqu.C("id").Eq(id)}
	if ch.Capacity != nil {
		if *ch.Capacity > 0 {
			set["capacity"] = *ch.Capacity
			where = append(where, goqu.L("jsonb_array_length(registrations) <= ?", *ch.Capacity))
		} else {
			set["capacity"] = nil
		}
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := toSQL(dialect.Update(tableEvents).
		Prepared(true).
		Set(set).
		Where(where...).
		Returning(eventColumns...))
	if err != nil {
		return nil, err
	}

	e, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrCapacityBelowCount
}

// Delete removes an event or returns ErrNotFound.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendRegistration adds reg to the event's registration list in a single
// conditional UPDATE.
//
// The row is only written when no registration for the same player exists
// and the capacity, if any, has not been reached. Concurrent callers are
// serialised on the event row and Postgres re-evaluates the WHERE clause
// against the latest version, so two requests can never both pass the
// guard. When nothing was written a follow-up read tells the caller why.
func (r *EventRepository) AppendRegistration(ctx context.Context, eventID string, reg model.Registration) (*model.Event, error) {
	entry, err := jsonParam([]model.Registration{reg})
	if err != nil {
		return nil, err
	}
	probe, err := registrationProbe(reg.PlayerID)
	if err != nil {
		return nil, err
	}

	query, args, err := toSQL(dialect.Update(tableEvents).
		Prepared(true).
		Set(goqu.Record{"registrations": goqu.L("registrations || ?::jsonb", entry)}).
		Where(
			goqu.C("id").Eq(eventID),
			goqu.L("NOT (registrations @> ?::jsonb)", probe),
			goqu.Or(
				goqu.C("capacity").IsNull(),
				goqu.L("jsonb_array_length(registrations) < capacity"),
			),
		).
		Returning(eventColumns...))
	if err != nil {
		return nil, err
	}

	e, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("append registration: %w", err)
	}
	return nil, r.rejectionReason(ctx, eventID, probe)
}

func (r *EventRepository) rejectionReason(ctx context.Context, eventID, probe string) error {
	var registered bool
	err := r.db.QueryRow(ctx,
		`SELECT registrations @> $2::jsonb FROM events WHERE id = $1`,
		eventID, probe,
	).Scan(&registered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return ErrAlreadyRegistered
	}
	return ErrEventFull
}

// Stats returns the number of events dated at or after from and the total
// number of registrations across all events.
func (r *EventRepository) Stats(ctx context.Context, from time.Time) (upcoming, registrations int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT count(*) FILTER (WHERE "date" >= $1),
		        COALESCE(sum(jsonb_array_length(registrations)), 0)
		 FROM events`,
		from,
	).Scan(&upcoming, &registrations)
	if err != nil {
		return 0, 0, fmt.Errorf("event stats: %w", err)
	}
	return upcoming, registrations, nil
}

// registrationProbe builds the containment document matching any
// registration of playerID.
func registrationProbe(playerID string) (string, error) {
	return jsonParam([]map[string]string{{"playerId": model.NormalizeID(playerID)}})
}
