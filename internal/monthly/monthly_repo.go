package monthly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ishiyama1989/koutuhi/internal/kvstore"
)

const (
	KeyPrefix      = "monthlyData_"
	KeySavedMonths = "savedMonths"
)

func recordKey(month string) string {
	return KeyPrefix + month
}

var ErrRecordNotFound = errors.New("monthly: record not found")

//go:generate mockgen -source=monthly_repo.go -destination=mock/monthly_repo_mock.go -package=mock
type Repository interface {
	// Save writes the record and adds its month to the index. replaced is
	// true when the month was already saved.
	Save(ctx context.Context, rec Record) (replaced bool, err error)
	Get(ctx context.Context, month string) (Record, error)
	Months(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, month string) error
}

// repository serializes index updates; the store only offers single-key
// writes.
type repository struct {
	store kvstore.Store
	mu    sync.Mutex
}

func NewRepository(store kvstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Months(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, KeySavedMonths)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var months []string
	if err := json.Unmarshal([]byte(raw), &months); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeySavedMonths, err)
	}
	if months == nil {
		months = []string{}
	}
	return months, nil
}

func (r *repository) writeMonths(ctx context.Context, months []string) error {
	data, err := json.Marshal(months)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, KeySavedMonths, string(data))
}

func (r *repository) Save(ctx context.Context, rec Record) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	months, err := r.Months(ctx)
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(months, rec.Month)
	replaced := i < len(months) && months[i] == rec.Month

	if err := r.store.Set(ctx, recordKey(rec.Month), string(data)); err != nil {
		return false, err
	}
	if replaced {
		return true, nil
	}
	months = append(months, "")
	copy(months[i+1:], months[i:])
	months[i] = rec.Month
	if err := r.writeMonths(ctx, months); err != nil {
		if rmErr := r.store.Remove(ctx, recordKey(rec.Month)); rmErr != nil {
			return false, errors.Join(err, rmErr)
		}
		return false, err
	}
	return false, nil
}

func (r *repository) Get(ctx context.Context, month string) (Record, error) {
	raw, err := r.store.Get(ctx, recordKey(month))
	if errors.Is(err, kvstore.ErrNotFound) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", recordKey(month), err)
	}
	return rec, nil
}

func (r *repository) Delete(ctx context.Context, month string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	months, err := r.Months(ctx)
	if err != nil {
		return err
	}
	i := sort.SearchStrings(months, month)
	if i == len(months) || months[i] != month {
		return ErrRecordNotFound
	}
	// Index first; a failed removal restores it.
	rest := append(append(make([]string, 0, len(months)-1), months[:i]...), months[i+1:]...)
	if err := r.writeMonths(ctx, rest); err != nil {
		return err
	}
	if err := r.store.Remove(ctx, recordKey(month)); err != nil {
		if wErr := r.writeMonths(ctx, months); wErr != nil {
			return errors.Join(err, wErr)
		}
		return err
	}
	return nil
}
