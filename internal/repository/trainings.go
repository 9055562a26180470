package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
)

const trainingColumns = `tr.id, tr.title, tr.description, tr.team_id, tm.name, tr.manager_id,
	tr.start_at, tr.end_at, tr.location, tr.type, tr.created_at`

// TrainingRepository handles persistence for training sessions.
type TrainingRepository struct {
	db *pgxpool.Pool
}

// NewTrainingRepository constructs a TrainingRepository.
func NewTrainingRepository(db *pgxpool.Pool) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Create inserts a training session.
func (r *TrainingRepository) Create(ctx context.Context, t *model.Training) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO trainings (id, title, description, team_id, manager_id, start_at, end_at, location, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Title, t.Description, t.TeamID, t.ManagerID, t.Start, t.End, t.Location, t.Type, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert training: %w", err)
	}
	return nil
}

// ListByManager returns sessions created by managerID, soonest first.
func (r *TrainingRepository) ListByManager(ctx context.Context, managerID string) ([]model.Training, error) {
	return r.list(ctx,
		`SELECT `+trainingColumns+`
		 FROM trainings tr JOIN teams tm ON tm.id = tr.team_id
		 WHERE tr.manager_id = $1
		 ORDER BY tr.start_at, tr.id`,
		managerID)
}

// ListByTeams returns sessions of any of teamIDs, soonest first.
func (r *TrainingRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]model.Training, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx,
		`SELECT `+trainingColumns+`
		 FROM trainings tr JOIN teams tm ON tm.id = tr.team_id
		 WHERE tr.team_id = ANY($1)
		 ORDER BY tr.start_at, tr.id`,
		teamIDs)
}

func (r *TrainingRepository) list(ctx context.Context, query string, args ...any) ([]model.Training, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	defer rows.Close()

	trainings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Training, error) {
		var t model.Training
		err := row.Scan(&t.ID, &t.Title, &t.Description, &t.TeamID, &t.TeamName, &t.ManagerID,
			&t.Start, &t.End, &t.Location, &t.Type, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan training: %w", err)
	}
	return trainings, nil
}

// Delete removes a session created by managerID, or returns ErrNotFound.
func (r *TrainingRepository) Delete(ctx context.Context, id, managerID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM trainings WHERE id = $1 AND manager_id = $2`, id, managerID)
	if err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
