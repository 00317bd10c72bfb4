// Package events publishes board-service domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"jobverse/internal/errors"
	"jobverse/internal/telemetry"
)

var tracer = telemetry.GetTracer("jobverse/events")

const (
	JobViewedSubject    = "jobs.viewed"
	JobsSearchedSubject = "jobs.searched"
	// ApplicationMovedSubject carries application status changes.
	ApplicationMovedSubject = "applications.moved"
)

// JobViewed is emitted after a job detail page is served.
type JobViewed struct {
	EventID string    `json:"eventId"`
	JobID   string    `json:"jobId"`
	Views   int       `json:"views"`
	At      time.Time `json:"at"`
}

// SearchPerformed is emitted for every executed query.
type SearchPerformed struct {
	EventID    string          `json:"eventId"`
	SessionID  string          `json:"sessionId,omitempty"`
	Criteria   json.RawMessage `json:"criteria"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalItems int             `json:"totalItems"`
	At         time.Time       `json:"at"`
}

// ApplicationMoved is emitted after an employer moves an application.
type ApplicationMoved struct {
	EventID       string    `json:"eventId"`
	ApplicationID string    `json:"applicationId"`
	JobID         string    `json:"jobId"`
	UserID        string    `json:"userId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	At            time.Time `json:"at"`
}

// NewEventID returns a fresh event id.
func NewEventID() string { return uuid.NewString() }

type Publisher interface {
	PublishJobViewed(ctx context.Context, ev JobViewed) error
	PublishSearch(ctx context.Context, ev SearchPerformed) error
	PublishApplicationMoved(ctx context.Context, ev ApplicationMoved) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher publishes on conn. Close drains and closes conn.
func NewNATSPublisher(conn *nats.Conn, logger *zap.Logger) Publisher {
	return &natsPublisher{conn: conn, logger: logger}
}

func (p *natsPublisher) PublishJobViewed(ctx context.Context, ev JobViewed) error {
	return p.publish(ctx, JobViewedSubject, ev.EventID, ev)
}

func (p *natsPublisher) PublishSearch(ctx context.Context, ev SearchPerformed) error {
	return p.publish(ctx, JobsSearchedSubject, ev.EventID, ev)
}

func (p *natsPublisher) PublishApplicationMoved(ctx context.Context, ev ApplicationMoved) error {
	return p.publish(ctx, ApplicationMovedSubject, ev.EventID, ev)
}

func (p *natsPublisher) publish(ctx context.Context, subject, eventID string, v any) error {
	_, span := tracer.Start(ctx, "events.Publish")
	defer span.End()

	data, err := json.Marshal(v)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish event",
			zap.String("subject", subject),
			zap.String("eventId", eventID),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	p.logger.Debug("published event",
		zap.String("subject", subject),
		zap.String("eventId", eventID))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
	}
}

type nopPublisher struct{}

// NopPublisher discards every event. It is used when NATS is not configured.
func NopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) PublishJobViewed(context.Context, JobViewed) error               { return nil }
func (nopPublisher) PublishSearch(context.Context, SearchPerformed) error            { return nil }
func (nopPublisher) PublishApplicationMoved(context.Context, ApplicationMoved) error { return nil }
func (nopPublisher) Close()                                                          {}
