package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	exchange  string
	err       error
	closed    bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() Event {
	return Event{
		Kind:           KindWeekDistributed,
		TenantID:       "acme",
		ProgramID:      "p1",
		CohortID:       "c1",
		WeekTemplateID: "w1",
		WeekNumber:     1,
		StartDate:      "2025-03-03",
		EndDate:        "2025-03-07",
		TasksAdded:     5,
		OccurredAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEvent_Encode(t *testing.T) {
	body, err := sampleEvent().Encode()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "week.distributed", decoded["kind"])
	assert.Equal(t, "c1", decoded["cohortId"])
	assert.Equal(t, float64(5), decoded["tasksAdded"])
	assert.NotContains(t, decoded, "degraded")
}

func TestAMQPNotifier_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	n := newAMQPNotifier(ch, "cadence.events")

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "cadence.events", ch.exchange)
	assert.Equal(t, []string{"week.distributed.acme"}, ch.keys)
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Contains(t, string(msg.Body), `"weekTemplateId":"w1"`)

	require.NoError(t, n.Close())
	assert.True(t, ch.closed)
}

func TestAMQPNotifier_WrapsPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	n := newAMQPNotifier(&fakeChannel{err: boom}, "x")

	err := n.Notify(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestAMQPNotifier_CancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newAMQPNotifier(ch, "x").Notify(ctx, sampleEvent())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.published)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), sampleEvent()))
	assert.Contains(t, buf.String(), "kind=week.distributed")
	assert.Contains(t, buf.String(), "cohort=c1")

	assert.IsType(t, Noop{}, NewLogNotifier(nil))
}
