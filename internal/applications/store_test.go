package applications_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobverse/internal/applications"
)

var submitted = time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC)

func pending(id, jobID, userID string) applications.Application {
	return applications.Application{
		ID: id, JobID: jobID, UserID: userID,
		Status: applications.StatusPending, AppliedAt: submitted, UpdatedAt: submitted,
	}
}

// exerciseStore runs the Store contract against s, which must be empty.
func exerciseStore(t *testing.T, s applications.Store) {
	t.Helper()
	ctx := context.Background()

	a, err := s.Create(ctx, pending("a1", "1", "u1"))
	require.NoError(t, err)
	assert.Equal(t, applications.StatusPending, a.Status)
	assert.Empty(t, a.History)

	_, err = s.Create(ctx, pending("a2", "1", "u1"))
	assert.ErrorIs(t, err, applications.ErrDuplicate)

	_, err = s.Create(ctx, pending("a3", "2", "u1"))
	require.NoError(t, err)
	_, err = s.Create(ctx, pending("a4", "1", "u2"))
	require.NoError(t, err)

	byUser, err := s.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "a1", byUser[0].ID)
	assert.Equal(t, "a3", byUser[1].ID)

	byJob, err := s.ListByJob(ctx, "1")
	require.NoError(t, err)
	require.Len(t, byJob, 2)
	assert.Equal(t, "a4", byJob[1].ID)

	none, err := s.ListByJob(ctx, "nope")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	later := submitted.Add(time.Hour)
	moved, err := s.Update(ctx, "a1", func(a *applications.Application) error {
		a.History = append(a.History, applications.HistoryEntry{From: a.Status, To: applications.StatusReviewed, At: later})
		a.Status = applications.StatusReviewed
		a.UpdatedAt = later
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, applications.StatusReviewed, moved.Status)
	require.Len(t, moved.History, 1)
	assert.Equal(t, later, moved.History[0].At.UTC())

	boom := errors.New("boom")
	_, err = s.Update(ctx, "a1", func(a *applications.Application) error {
		a.Status = applications.StatusHired
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, applications.StatusReviewed, got.Status)
	assert.Equal(t, later, got.UpdatedAt)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, applications.ErrNotFound)
	_, err = s.Update(ctx, "missing", func(*applications.Application) error { return nil })
	assert.ErrorIs(t, err, applications.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, applications.NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := applications.NewMemoryStore()
	_, err := s.Create(ctx, pending("a1", "1", "u1"))
	require.NoError(t, err)

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	got.History = append(got.History, applications.HistoryEntry{To: applications.StatusHired})

	again, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, again.History)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS job_applications`)
	require.NoError(t, err)

	s := applications.NewPostgresStore(pool)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	exerciseStore(t, s)
}
