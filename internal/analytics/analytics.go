// Package analytics records executed searches in ClickHouse.
package analytics

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"

	"jobverse/internal/events"
	"jobverse/internal/telemetry"
)

var tracer = telemetry.GetTracer("jobverse/analytics")

// SearchEventsTable is created by Migrate.
const SearchEventsTable = `
CREATE TABLE IF NOT EXISTS search_events (
	event_id    UUID,
	session_id  String,
	criteria    String,
	page        Int64,
	page_size   Int64,
	total_items Int64,
	at          DateTime64(3, 'UTC')
) ENGINE = MergeTree()
ORDER BY (at, event_id)`

type Recorder interface {
	RecordSearch(ctx context.Context, ev events.SearchPerformed) error
}

// ClickHouseRecorder appends one row per search.
type ClickHouseRecorder struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func NewClickHouseRecorder(conn clickhouse.Conn, logger *zap.Logger) *ClickHouseRecorder {
	return &ClickHouseRecorder{conn: conn, logger: logger}
}

// Migrate creates the search_events table if it is missing.
func (r *ClickHouseRecorder) Migrate(ctx context.Context) error {
	if err := r.conn.Exec(ctx, SearchEventsTable); err != nil {
		return fmt.Errorf("failed to create search_events table: %w", err)
	}
	return nil
}

func (r *ClickHouseRecorder) RecordSearch(ctx context.Context, ev events.SearchPerformed) error {
	ctx, span := tracer.Start(ctx, "analytics.RecordSearch")
	defer span.End()

	err := r.conn.Exec(ctx, `
		INSERT INTO search_events (event_id, session_id, criteria, page, page_size, total_items, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.EventID, ev.SessionID, string(ev.Criteria),
		int64(ev.Page), int64(ev.PageSize), int64(ev.TotalItems), ev.At,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("insert search event: %w", err)
	}

	r.logger.Debug("recorded search", zap.String("eventId", ev.EventID), zap.Int("totalItems", ev.TotalItems))
	return nil
}

type nopRecorder struct{}

// NopRecorder drops every event. It is used when ClickHouse is not configured.
func NopRecorder() Recorder { return nopRecorder{} }

func (nopRecorder) RecordSearch(context.Context, events.SearchPerformed) error { return nil }
