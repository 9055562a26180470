package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
)

const teamColumns = `id, name, manager_id, player_ids, created_at`

// TeamRepository handles persistence for teams.
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository constructs a TeamRepository.
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

func scanTeam(row pgx.Row) (*model.Team, error) {
	var t model.Team
	if err := row.Scan(&t.ID, &t.Name, &t.ManagerID, &t.PlayerIDs, &t.CreatedAt); err != nil {
		return nil, err
	}
	if t.PlayerIDs == nil {
		t.PlayerIDs = []string{}
	}
	return &t, nil
}

// Create inserts a team.
func (r *TeamRepository) Create(ctx context.Context, t *model.Team) error {
	players := t.PlayerIDs
	if players == nil {
		players = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO teams (id, name, manager_id, player_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.ManagerID, players, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

// GetByID returns a team or ErrNotFound.
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*model.Team, error) {
	t, err := scanTeam(r.db.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

// ListByManager returns the teams managed by managerID, oldest first.
func (r *TeamRepository) ListByManager(ctx context.Context, managerID string) ([]model.Team, error) {
	return r.list(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE manager_id = $1 ORDER BY created_at, id`, managerID)
}

// ListByPlayer returns the teams playerID belongs to, oldest first.
func (r *TeamRepository) ListByPlayer(ctx context.Context, playerID string) ([]model.Team, error) {
	return r.list(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE $1 = ANY(player_ids) ORDER BY created_at, id`, playerID)
}

func (r *TeamRepository) list(ctx context.Context, query string, args ...any) ([]model.Team, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// AddPlayer appends playerID to a team owned by managerID. Membership is
// checked in the same statement as the write.
func (r *TeamRepository) AddPlayer(ctx context.Context, teamID, managerID, playerID string) (*model.Team, error) {
	t, err := scanTeam(r.db.QueryRow(ctx,
		`UPDATE teams SET player_ids = array_append(player_ids, $3)
		 WHERE id = $1 AND manager_id = $2 AND NOT ($3 = ANY(player_ids))
		 RETURNING `+teamColumns,
		teamID, managerID, playerID,
	))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("add team player: %w", err)
	}

	owned, err := r.getOwned(ctx, teamID, managerID)
	if err != nil {
		return nil, err
	}
	if owned.HasPlayer(playerID) {
		return nil, ErrAlreadyInTeam
	}
	return nil, fmt.Errorf("add team player: no row updated")
}

// RemovePlayer removes playerID from a team owned by managerID.
func (r *TeamRepository) RemovePlayer(ctx context.Context, teamID, managerID, playerID string) (*model.Team, error) {
	t, err := scanTeam(r.db.QueryRow(ctx,
		`UPDATE teams SET player_ids = array_remove(player_ids, $3)
		 WHERE id = $1 AND manager_id = $2 AND $3 = ANY(player_ids)
		 RETURNING `+teamColumns,
		teamID, managerID, playerID,
	))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("remove team player: %w", err)
	}

	if _, err := r.getOwned(ctx, teamID, managerID); err != nil {
		return nil, err
	}
	return nil, ErrNotInTeam
}

func (r *TeamRepository) getOwned(ctx context.Context, teamID, managerID string) (*model.Team, error) {
	t, err := r.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t.ManagerID != managerID {
		return nil, ErrNotFound
	}
	return t, nil
}

// Count returns the number of teams.
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM teams`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return n, nil
}
