package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	attendanceerrors "github.com/ishiyama1989/koutuhi/internal/attendance/errors"

	"github.com/google/uuid"
)

const (
	DefaultPreviewTTL = 2 * time.Hour
	DefaultMaxPreview = 64
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	Save(ctx context.Context, p *Preview) error
	Get(ctx context.Context, id uuid.UUID) (*Preview, error)
	Update(ctx context.Context, id uuid.UUID, fn func(p *Preview) error) (*Preview, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// memoryRepository holds previews for the life of the process. Entries idle
// longer than ttl are dropped, and the least recently used entry goes first
// once max is reached.
type memoryRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Preview
	ttl   time.Duration
	max   int
	now   func() time.Time
}

func NewMemoryRepository(ttl time.Duration, max int) Repository {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	if max <= 0 {
		max = DefaultMaxPreview
	}
	return &memoryRepository{
		items: make(map[uuid.UUID]*Preview),
		ttl:   ttl,
		max:   max,
		now:   time.Now,
	}
}

func (r *memoryRepository) Save(ctx context.Context, p *Preview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()
	stored := p.clone()
	stored.AccessedAt = r.now()
	r.items[p.ID] = stored
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id uuid.UUID) (*Preview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.liveLocked(id)
	if !ok {
		return nil, attendanceerrors.ErrPreviewNotFound
	}
	return p.clone(), nil
}

func (r *memoryRepository) Update(ctx context.Context, id uuid.UUID, fn func(p *Preview) error) (*Preview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.liveLocked(id)
	if !ok {
		return nil, attendanceerrors.ErrPreviewNotFound
	}
	next := p.clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.AccessedAt = r.now()
	r.items[id] = next
	return next.clone(), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return attendanceerrors.ErrPreviewNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepository) liveLocked(id uuid.UUID) (*Preview, bool) {
	p, ok := r.items[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(p.AccessedAt) > r.ttl {
		delete(r.items, id)
		return nil, false
	}
	p.AccessedAt = now
	return p, true
}

func (r *memoryRepository) evictLocked() {
	now := r.now()
	for id, p := range r.items {
		if now.Sub(p.AccessedAt) > r.ttl {
			delete(r.items, id)
		}
	}
	if len(r.items) < r.max {
		return
	}

	ids := make([]uuid.UUID, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return r.items[ids[i]].AccessedAt.Before(r.items[ids[j]].AccessedAt)
	})
	for _, id := range ids[:len(r.items)-r.max+1] {
		delete(r.items, id)
	}
}
