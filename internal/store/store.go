// Package store provides the backing job corpus read by the query engine.
package store

import (
	"context"
	"time"

	"jobverse/internal/model"
)

// UpdateFunc edits a job in place. Returning an error aborts the update and
// leaves the stored job unchanged.
type UpdateFunc func(*model.JobRecord) error

// JobStore is the backing store contract. ListJobs returns a consistent
// snapshot in insertion order; callers may keep and reorder the returned
// slice freely. Writes are serialized with reads, so a query never sees a
// half-applied write.
type JobStore interface {
	ListJobs(ctx context.Context) ([]model.JobRecord, error)
	GetJob(ctx context.Context, id string) (model.JobRecord, error)

	// CreateJob appends j after every existing job. A taken id returns
	// model.ErrJobExists.
	CreateJob(ctx context.Context, j model.JobRecord) (model.JobRecord, error)
	// UpdateJob applies fn atomically and returns the stored result.
	UpdateJob(ctx context.Context, id string, fn UpdateFunc) (model.JobRecord, error)
	DeleteJob(ctx context.Context, id string) error

	// IncrementViews bumps the view counter and returns the updated record.
	IncrementViews(ctx context.Context, id string) (model.JobRecord, error)
	// IncrementApplications bumps the application counter.
	IncrementApplications(ctx context.Context, id string) (model.JobRecord, error)
	// CloseExpired closes open jobs whose deadline is before now and
	// returns how many were closed.
	CloseExpired(ctx context.Context, now time.Time) (int, error)
}
