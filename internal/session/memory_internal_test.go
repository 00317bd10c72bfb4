package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobverse/internal/filter"
)

func TestMemoryStore_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Create(ctx, "abc", filter.NewState()))

	now = now.Add(30 * time.Second)
	_, err := s.Update(ctx, "abc", func(st filter.State) (filter.State, error) { return st, nil })
	require.NoError(t, err)

	// The update slid the expiry forward.
	now = now.Add(45 * time.Second)
	_, err = s.Get(ctx, "abc")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
