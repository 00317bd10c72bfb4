package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobverse/internal/filter"
	"jobverse/internal/session"
	"jobverse/internal/store"
)

func TestPresent_OlderStateIsStale(t *testing.T) {
	svc := NewService(Options{
		Store:    store.NewMemoryStore(store.SeedJobs()),
		Sessions: session.NewMemoryStore(time.Hour),
	})
	ctx := context.Background()

	older, err := filter.NewState().Toggle(filter.DimensionSkills, "React")
	require.NoError(t, err)
	newer, err := older.Toggle(filter.DimensionSkills, "Python")
	require.NoError(t, err)

	// The newer result lands first; the older one must be discarded.
	v, err := svc.present(ctx, "s1", newer, true)
	require.NoError(t, err)
	assert.False(t, v.Stale)

	v, err = svc.present(ctx, "s1", older, true)
	require.NoError(t, err)
	assert.True(t, v.Stale)
	assert.Equal(t, newer.Seq, svc.sequencer("s1").Latest(), "a stale result does not move the watermark")

	// Other sessions are unaffected.
	v, err = svc.present(ctx, "s2", older, true)
	require.NoError(t, err)
	assert.False(t, v.Stale)
}

func TestSequencerTableIsBounded(t *testing.T) {
	svc := NewService(Options{
		Store:    store.NewMemoryStore(nil),
		Sessions: session.NewMemoryStore(time.Hour),
	})
	for i := range maxTrackedSessions + 1 {
		svc.sequencer(fmt.Sprintf("s%d", i))
	}
	assert.LessOrEqual(t, len(svc.seqs), maxTrackedSessions)
}
