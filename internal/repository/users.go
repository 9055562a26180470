package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
)

const userColumns = `id, username, email, password_hash, role, position, status, performance, created_at`

// UserRepository handles persistence for accounts and their performance.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Position, &u.Status, &u.Performance, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. Emails are unique regardless of case.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, position, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Position, u.Status, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID returns a user or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail looks a user up by case-insensitive email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListByRole returns users holding role ordered by username.
func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.list(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY username, id`, role)
}

// ListByIDs returns the users whose IDs are in ids, in no particular order.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountByRole returns the number of users per role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	rows, err := r.db.Query(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Role]int)
	for rows.Next() {
		var role model.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan user count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

// RecordPerformance locks the player row, passes the current performance
// to apply, stores the result and appends it to the history in one
// transaction.
func (r *UserRepository) RecordPerformance(ctx context.Context, playerID string, apply func(model.Performance) model.Performance) (_ *model.Performance, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var current *model.Performance
	err = tx.QueryRow(ctx,
		`SELECT performance FROM users WHERE id = $1 FOR UPDATE`, playerID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
			return nil, err
		}
		return nil, fmt.Errorf("lock user: %w", err)
	}

	var base model.Performance
	if current != nil {
		base = *current
	}
	p := apply(base)

	doc, err := jsonParam(p)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET performance = $2::jsonb WHERE id = $1`,
		playerID, doc,
	)
	if err != nil {
		return nil, fmt.Errorf("update performance: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO performance_records (id, player_id, performance, recorded_at)
		 VALUES ($1, $2, $3::jsonb, $4)`,
		uuid.NewString(), playerID, doc, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert performance record: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &p, nil
}

// PerformanceHistory returns a player's recorded performances, oldest first.
func (r *UserRepository) PerformanceHistory(ctx context.Context, playerID string) ([]model.PerformanceRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, performance
		 FROM performance_records
		 WHERE player_id = $1
		 ORDER BY recorded_at ASC, id ASC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list performance records: %w", err)
	}
	defer rows.Close()

	var records []model.PerformanceRecord
	for rows.Next() {
		var rec model.PerformanceRecord
		if err := rows.Scan(&rec.ID, &rec.PlayerID, &rec.Performance); err != nil {
			return nil, fmt.Errorf("scan performance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
