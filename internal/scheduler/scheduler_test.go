package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobverse/internal/model"
	"jobverse/internal/scheduler"
	"jobverse/internal/store"
)

type countingCloser struct {
	calls atomic.Int32
	err   error
}

func (c *countingCloser) CloseExpired(context.Context, time.Time) (int, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestExpirySweeper_RunOnceClosesExpired(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(store.SeedJobs())

	// Every sample deadline is in 2023, so a real-clock sweep closes them all.
	n := scheduler.New(s, zap.NewNop(), time.Hour).RunOnce(ctx)
	assert.Equal(t, 23, n)

	j, err := s.GetJob(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusClosed, j.Status)
}

func TestExpirySweeper_RunOnceSwallowsErrors(t *testing.T) {
	c := &countingCloser{err: errors.New("db down")}
	n := scheduler.New(c, zap.NewNop(), time.Hour).RunOnce(context.Background())
	assert.Zero(t, n)
	assert.Equal(t, int32(1), c.calls.Load())
}

func TestExpirySweeper_StartRunsImmediately(t *testing.T) {
	c := &countingCloser{}
	sw := scheduler.New(c, zap.NewNop(), time.Hour)
	require.NoError(t, sw.Start(context.Background()))
	sw.Stop()

	assert.Equal(t, int32(1), c.calls.Load())
}

func TestExpirySweeper_TicksOnInterval(t *testing.T) {
	c := &countingCloser{}
	sw := scheduler.New(c, zap.NewNop(), time.Second)
	require.NoError(t, sw.Start(context.Background()))
	defer sw.Stop()

	assert.Eventually(t, func() bool { return c.calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
}
