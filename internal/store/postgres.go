package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobverse/internal/model"
)

// Schema creates the jobs table. seq keeps insertion order stable across
// restarts so result ordering matches the memory store.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	seq               BIGSERIAL PRIMARY KEY,
	id                TEXT        NOT NULL UNIQUE,
	title             TEXT        NOT NULL,
	employer          JSONB       NOT NULL,
	location          TEXT        NOT NULL,
	job_type          TEXT        NOT NULL,
	category          TEXT        NOT NULL,
	description       TEXT        NOT NULL DEFAULT '',
	requirements      TEXT[]      NOT NULL DEFAULT '{}',
	responsibilities  TEXT[]      NOT NULL DEFAULT '{}',
	salary_min        INTEGER,
	salary_max        INTEGER,
	salary_currency   TEXT,
	experience_level  TEXT        NOT NULL DEFAULT '',
	posted_at         TIMESTAMPTZ NOT NULL,
	deadline          TIMESTAMPTZ,
	status            TEXT        NOT NULL DEFAULT 'open',
	skills            TEXT[]      NOT NULL DEFAULT '{}',
	applications      INTEGER     NOT NULL DEFAULT 0,
	views             INTEGER     NOT NULL DEFAULT 0
);`

const jobColumns = `id, title, employer, location, job_type, category, description,
	requirements, responsibilities, salary_min, salary_max, salary_currency,
	experience_level, posted_at, deadline, status, skills, applications, views`

const insertJob = `INSERT INTO jobs (` + jobColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

// uniqueViolation is the SQLSTATE postgres reports for a duplicate key.
const uniqueViolation = "23505"

// PostgresStore reads the corpus from a jobs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the jobs table if it is missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate jobs: %w", err)
	}
	return nil
}

// Seed inserts jobs, skipping ids that already exist. It returns how many
// rows were inserted.
func (s *PostgresStore) Seed(ctx context.Context, jobs []model.JobRecord) (int, error) {
	batch := &pgx.Batch{}
	for _, j := range jobs {
		args, err := jobArgs(j)
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", j.ID, err)
		}
		batch.Queue(insertJob+` ON CONFLICT (id) DO NOTHING`, args...)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range jobs {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("seed insert: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ListJobs returns every job in insertion order.
func (s *PostgresStore) ListJobs(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobRecord, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("listJobs scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listJobs rows: %w", err)
	}
	return jobs, nil
}

// GetJob returns model.ErrJobNotFound for an unknown id.
func (s *PostgresStore) GetJob(ctx context.Context, id string) (model.JobRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanOne(row, "getJob")
}

// CreateJob inserts j. The new row takes the next seq, so it lists last.
func (s *PostgresStore) CreateJob(ctx context.Context, j model.JobRecord) (model.JobRecord, error) {
	args, err := jobArgs(j)
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("createJob: %w", err)
	}
	created, err := scanOne(s.pool.QueryRow(ctx, insertJob+` RETURNING `+jobColumns, args...), "createJob")
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.JobRecord{}, model.ErrJobExists
	}
	return created, err
}

// UpdateJob locks the row, applies fn and writes every column back. seq is
// untouched so the job keeps its position.
func (s *PostgresStore) UpdateJob(ctx context.Context, id string, fn UpdateFunc) (model.JobRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("updateJob begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	current, err := scanOne(tx.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id), "updateJob select")
	if err != nil {
		return model.JobRecord{}, err
	}
	if err := fn(&current); err != nil {
		return model.JobRecord{}, err
	}
	current.ID = id

	args, err := jobArgs(current)
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("updateJob: %w", err)
	}
	updated, err := scanOne(tx.QueryRow(ctx,
		`UPDATE jobs SET (`+jobColumns+`) =
		 ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		 WHERE id = $1 RETURNING `+jobColumns, args...), "updateJob")
	if err != nil {
		return model.JobRecord{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.JobRecord{}, fmt.Errorf("updateJob commit: %w", err)
	}
	return updated, nil
}

// DeleteJob returns model.ErrJobNotFound when no row matched.
func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleteJob: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

// IncrementViews bumps the view counter of id and returns the updated row.
func (s *PostgresStore) IncrementViews(ctx context.Context, id string) (model.JobRecord, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE jobs SET views = views + 1 WHERE id = $1 RETURNING `+jobColumns, id)
	return scanOne(row, "incrementViews")
}

// IncrementApplications bumps the application counter of id.
func (s *PostgresStore) IncrementApplications(ctx context.Context, id string) (model.JobRecord, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE jobs SET applications = applications + 1 WHERE id = $1 RETURNING `+jobColumns, id)
	return scanOne(row, "incrementApplications")
}

// CloseExpired closes every open job whose deadline is before now.
func (s *PostgresStore) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = 'closed'
		 WHERE status = 'open' AND deadline IS NOT NULL AND deadline < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("closeExpired: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// jobArgs lays j out in jobColumns order.
func jobArgs(j model.JobRecord) ([]any, error) {
	employer, err := json.Marshal(j.Employer)
	if err != nil {
		return nil, fmt.Errorf("marshal employer: %w", err)
	}
	var lo, hi *int
	var currency *string
	if j.Salary != nil {
		lo, hi, currency = &j.Salary.Min, &j.Salary.Max, &j.Salary.Currency
	}
	return []any{
		j.ID, j.Title, employer, j.Location, string(j.Type), j.Category, j.Description,
		nonNil(j.Requirements), nonNil(j.Responsibilities), lo, hi, currency,
		string(j.ExperienceLevel), j.PostedAt, j.Deadline, string(j.Status),
		nonNil(j.Skills), j.Applications, j.Views,
	}, nil
}

func scanOne(row pgx.Row, op string) (model.JobRecord, error) {
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobRecord{}, model.ErrJobNotFound
	}
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return j, nil
}

func scanJob(row pgx.Row) (model.JobRecord, error) {
	var (
		j                     model.JobRecord
		employer              []byte
		jobType, level, state string
		lo, hi                *int
		currency              *string
	)
	if err := row.Scan(
		&j.ID, &j.Title, &employer, &j.Location, &jobType, &j.Category, &j.Description,
		&j.Requirements, &j.Responsibilities, &lo, &hi, &currency,
		&level, &j.PostedAt, &j.Deadline, &state, &j.Skills, &j.Applications, &j.Views,
	); err != nil {
		return model.JobRecord{}, err
	}
	if err := json.Unmarshal(employer, &j.Employer); err != nil {
		return model.JobRecord{}, fmt.Errorf("decode employer: %w", err)
	}
	j.Type = model.JobType(jobType)
	j.ExperienceLevel = model.ExperienceLevel(level)
	j.Status = model.JobStatus(state)
	if lo != nil && hi != nil {
		j.Salary = &model.Salary{Min: *lo, Max: *hi}
		if currency != nil {
			j.Salary.Currency = *currency
		}
	}
	j.PostedAt = j.PostedAt.UTC()
	return j, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
