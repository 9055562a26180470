// Package repository implements all database queries for the sports team
// manager. It uses pgx directly, with goqu building the statements whose
// shape depends on the request.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event has reached maximum capacity")

// ErrAlreadyRegistered is returned when the same player registers twice.
var ErrAlreadyRegistered = errors.New("player already registered for this event")

// ErrCapacityBelowCount is returned when an update would set a capacity
// smaller than the number of existing registrations.
var ErrCapacityBelowCount = errors.New("capacity is below the current registration count")

// ErrEmailTaken is returned when an account with the same email exists.
var ErrEmailTaken = errors.New("email already in use")

// ErrAlreadyInTeam is returned when adding a player who is already a member.
var ErrAlreadyInTeam = errors.New("player already in team")

// ErrNotInTeam is returned when removing a player who is not a member.
var ErrNotInTeam = errors.New("player not in team")

const uniqueViolation = "23505"

var dialect = goqu.Dialect("postgres")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// toSQL renders a goqu dataset with $n placeholders for pgx.
func toSQL(ds interface {
	ToSQL() (string, []any, error)
}) (string, []any, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build query: %w", err)
	}
	return query, args, nil
}

// jsonParam encodes v for a ?::jsonb placeholder.
func jsonParam(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(b), nil
}
