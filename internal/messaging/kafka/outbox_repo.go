package kafka

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"

	// MaxOutboxRetries drops an event after this many failed publishes.
	MaxOutboxRetries = 10
)

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
	CreatedAt     time.Time
	LastError     string
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// memoryOutbox keeps undelivered events for the life of the process. Sent
// events are dropped right away.
type memoryOutbox struct {
	mu     sync.Mutex
	events map[string]*OutboxEvent
	now    func() time.Time
}

func NewMemoryOutbox() OutboxRepository {
	return &memoryOutbox{
		events: make(map[string]*OutboxEvent),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryOutbox) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; ok {
		return fmt.Errorf("outbox event %s already exists", event.ID)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}
	e := event
	r.events[event.ID] = &e
	return nil
}

func (r *memoryOutbox) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	out := make([]OutboxEvent, 0, len(r.events))
	for _, e := range r.events {
		if e.Status != OutboxStatusPending && e.Status != OutboxStatusFailed {
			continue
		}
		if !e.NextRetryAt.IsZero() && e.NextRetryAt.After(now) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryOutbox) MarkSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

// MarkFailed backs off linearly, 15s per attempt capped at 150s.
func (r *memoryOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return fmt.Errorf("outbox event %s not found", id)
	}
	e.RetryCount++
	if e.RetryCount >= MaxOutboxRetries {
		delete(r.events, id)
		return nil
	}
	if len(reason) > 500 {
		reason = reason[:500]
	}
	step := e.RetryCount
	if step > 10 {
		step = 10
	}
	e.Status = OutboxStatusFailed
	e.LastError = reason
	e.NextRetryAt = r.now().Add(time.Duration(step) * 15 * time.Second)
	return nil
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
