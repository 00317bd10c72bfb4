package events_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobverse/internal/events"
)

func TestNewEventID_IsUUID(t *testing.T) {
	id := events.NewEventID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, events.NewEventID())
}

func TestNopPublisher(t *testing.T) {
	p := events.NopPublisher()
	assert.NoError(t, p.PublishJobViewed(context.Background(), events.JobViewed{JobID: "1"}))
	assert.NoError(t, p.PublishSearch(context.Background(), events.SearchPerformed{}))
	assert.NoError(t, p.PublishApplicationMoved(context.Background(), events.ApplicationMoved{ApplicationID: "a1"}))
	p.Close()
}

func TestSearchPerformed_JSON(t *testing.T) {
	ev := events.SearchPerformed{
		EventID:  "e1",
		Criteria: json.RawMessage(`{"skills":["React"]}`),
		Page:     1,
		At:       time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventId":"e1","criteria":{"skills":["React"]},"page":1,"pageSize":0,"totalItems":0,"at":"2023-04-15T00:00:00Z"}`, string(b))
}

func TestApplicationMoved_JSON(t *testing.T) {
	ev := events.ApplicationMoved{
		EventID: "e2", ApplicationID: "a1", JobID: "7", UserID: "u1",
		From: "pending", To: "reviewed",
		At: time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventId":"e2","applicationId":"a1","jobId":"7","userId":"u1","from":"pending","to":"reviewed","at":"2023-04-15T00:00:00Z"}`, string(b))
}

func TestNATSPublisher_Integration(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync(events.JobViewedSubject)
	require.NoError(t, err)

	pubConn, err := nats.Connect(url)
	require.NoError(t, err)
	p := events.NewNATSPublisher(pubConn, zap.NewNop())
	defer p.Close()

	require.NoError(t, p.PublishJobViewed(context.Background(), events.JobViewed{EventID: "e1", JobID: "7", Views: 3}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	var got events.JobViewed
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "7", got.JobID)
}
