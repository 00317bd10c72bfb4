package analytics_test

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobverse/internal/analytics"
	"jobverse/internal/db"
	"jobverse/internal/events"
)

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, analytics.NopRecorder().RecordSearch(context.Background(), events.SearchPerformed{}))
}

func TestClickHouseRecorder_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_CLICKHOUSE_DSN")
	if dsn == "" {
		t.Skip("TEST_CLICKHOUSE_DSN not set")
	}
	ctx := context.Background()

	conn, err := db.NewClickHouseConn(ctx, db.ClickHouseOptions{DSN: dsn, Database: "default", Username: "default"})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Exec(ctx, `DROP TABLE IF EXISTS search_events`))
	r := analytics.NewClickHouseRecorder(conn, zap.NewNop())
	require.NoError(t, r.Migrate(ctx))

	ev := events.SearchPerformed{
		EventID:    events.NewEventID(),
		Criteria:   json.RawMessage(`{"type":["internship"]}`),
		Page:       math.MaxInt,
		PageSize:   10,
		TotalItems: 1,
		At:         time.Now().UTC(),
	}
	require.NoError(t, r.RecordSearch(ctx, ev))

	var n uint64
	require.NoError(t, conn.QueryRow(ctx, `SELECT count() FROM search_events WHERE event_id = ?`, ev.EventID).Scan(&n))
	assert.Equal(t, uint64(1), n)

	// Large pages are stored as-is, not truncated.
	var page int64
	require.NoError(t, conn.QueryRow(ctx, `SELECT page FROM search_events WHERE event_id = ?`, ev.EventID).Scan(&page))
	assert.Equal(t, int64(math.MaxInt), page)
}
