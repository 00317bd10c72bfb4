package applications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the job_applications table. The unique pair enforces one
// application per user and job.
const Schema = `
CREATE TABLE IF NOT EXISTS job_applications (
	seq          BIGSERIAL PRIMARY KEY,
	id           TEXT        NOT NULL UNIQUE,
	job_id       TEXT        NOT NULL,
	user_id      TEXT        NOT NULL,
	resume_id    TEXT        NOT NULL DEFAULT '',
	cover_letter TEXT        NOT NULL DEFAULT '',
	status       TEXT        NOT NULL DEFAULT 'pending',
	applied_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL,
	history      JSONB       NOT NULL DEFAULT '[]',
	UNIQUE (job_id, user_id)
);
CREATE INDEX IF NOT EXISTS job_applications_user_idx ON job_applications (user_id);`

const columns = `id, job_id, user_id, resume_id, cover_letter, status, applied_at, updated_at, history`

// PostgresStore keeps applications in the job_applications table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the table if it is missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate job_applications: %w", err)
	}
	return nil
}

// Create inserts a. A second application for the same pair inserts nothing
// and returns ErrDuplicate.
func (s *PostgresStore) Create(ctx context.Context, a Application) (Application, error) {
	history, err := json.Marshal(a.clone().History)
	if err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO job_applications (`+columns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (job_id, user_id) DO NOTHING
		 RETURNING `+columns,
		a.ID, a.JobID, a.UserID, a.ResumeID, a.CoverLetter, string(a.Status), a.AppliedAt, a.UpdatedAt, history)
	created, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrDuplicate
	}
	if err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Application, error) {
	a, err := scan(s.pool.QueryRow(ctx, `SELECT `+columns+` FROM job_applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// Update locks the row for the duration of fn.
func (s *PostgresStore) Update(ctx context.Context, id string, fn func(*Application) error) (Application, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Application{}, fmt.Errorf("update application begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	a, err := scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM job_applications WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("update application select: %w", err)
	}
	if err := fn(&a); err != nil {
		return Application{}, err
	}

	history, err := json.Marshal(a.History)
	if err != nil {
		return Application{}, fmt.Errorf("update application: %w", err)
	}
	updated, err := scan(tx.QueryRow(ctx,
		`UPDATE job_applications SET status = $2, updated_at = $3, history = $4
		 WHERE id = $1 RETURNING `+columns,
		id, string(a.Status), a.UpdatedAt, history))
	if err != nil {
		return Application{}, fmt.Errorf("update application: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Application{}, fmt.Errorf("update application commit: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	return s.list(ctx, `user_id`, userID)
}

func (s *PostgresStore) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return s.list(ctx, `job_id`, jobID)
}

// list filters on column, which is always a constant from this file.
func (s *PostgresStore) list(ctx context.Context, column, value string) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+columns+` FROM job_applications WHERE `+column+` = $1 ORDER BY seq`, value)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list applications scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications rows: %w", err)
	}
	return out, nil
}

func scan(row pgx.Row) (Application, error) {
	var (
		a       Application
		status  string
		history []byte
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.UserID, &a.ResumeID, &a.CoverLetter,
		&status, &a.AppliedAt, &a.UpdatedAt, &history); err != nil {
		return Application{}, err
	}
	if err := json.Unmarshal(history, &a.History); err != nil {
		return Application{}, fmt.Errorf("decode history: %w", err)
	}
	a.Status = Status(status)
	a.AppliedAt = a.AppliedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a.clone(), nil
}
