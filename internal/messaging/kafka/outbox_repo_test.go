package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOutbox(now *time.Time) *memoryOutbox {
	r := NewMemoryOutbox().(*memoryOutbox)
	r.now = func() time.Time { return *now }
	return r
}

func pendingEvent(id string) OutboxEvent {
	return OutboxEvent{ID: id, Topic: "t", Payload: []byte(`{}`), Status: OutboxStatusPending}
}

func TestValidateOutboxEvent(t *testing.T) {
	tests := []struct {
		name  string
		event OutboxEvent
		err   string
	}{
		{"ok", pendingEvent("1"), ""},
		{"missing id", OutboxEvent{Topic: "t", Payload: []byte("x"), Status: OutboxStatusPending}, "outbox id is required"},
		{"missing topic", OutboxEvent{ID: "1", Payload: []byte("x"), Status: OutboxStatusPending}, "outbox topic is required"},
		{"missing payload", OutboxEvent{ID: "1", Topic: "t", Status: OutboxStatusPending}, "outbox payload is required"},
		{"bad status", OutboxEvent{ID: "1", Topic: "t", Payload: []byte("x"), Status: "queued"}, "invalid outbox status: queued"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutboxEvent(tt.event)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.err)
		})
	}
}

func TestMemoryOutbox_ListPendingOrderAndLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := newTestOutbox(&now)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Create(ctx, pendingEvent(id)))
		now = now.Add(time.Second)
	}
	require.Error(t, r.Create(ctx, pendingEvent("a")))

	events, err := r.ListPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
}

func TestMemoryOutbox_MarkSentRemoves(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := newTestOutbox(&now)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, pendingEvent("a")))
	require.NoError(t, r.MarkSent(ctx, "a"))

	events, err := r.ListPending(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMemoryOutbox_MarkFailedBacksOff(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := newTestOutbox(&now)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, pendingEvent("a")))
	require.NoError(t, r.MarkFailed(ctx, "a", "broker down"))

	events, _ := r.ListPending(ctx, 0)
	assert.Empty(t, events, "hidden until retry time")

	now = now.Add(15 * time.Second)
	events, _ = r.ListPending(ctx, 0)
	require.Len(t, events, 1)
	assert.Equal(t, OutboxStatusFailed, events[0].Status)
	assert.Equal(t, 1, events[0].RetryCount)
	assert.Equal(t, "broker down", events[0].LastError)

	assert.Error(t, r.MarkFailed(ctx, "missing", "x"))
}

func TestMemoryOutbox_DropsAfterMaxRetries(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := newTestOutbox(&now)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, pendingEvent("a")))
	for i := 0; i < MaxOutboxRetries; i++ {
		require.NoError(t, r.MarkFailed(ctx, "a", "x"))
	}
	now = now.Add(time.Hour)
	events, _ := r.ListPending(ctx, 0)
	assert.Empty(t, events)
}
