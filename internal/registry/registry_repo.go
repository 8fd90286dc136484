package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ishiyama1989/koutuhi/internal/kvstore"
)

const (
	KeyPeople   = "people"
	KeyPatterns = "patterns"
	KeySettings = "settings"
)

//go:generate mockgen -source=registry_repo.go -destination=mock/registry_repo_mock.go -package=mock
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	SavePeople(ctx context.Context, people []Person) error
	SavePatterns(ctx context.Context, patterns []WorkPattern) error
	SaveSettings(ctx context.Context, settings Settings) error
	Clear(ctx context.Context) error
}

type repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{People: []Person{}, Patterns: []WorkPattern{}, Settings: DefaultSettings()}

	if raw, ok, err := r.get(ctx, KeyPeople); err != nil {
		return Snapshot{}, err
	} else if ok {
		people, err := decodePeople([]byte(raw))
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", KeyPeople, err)
		}
		snap.People = people
	}

	if raw, ok, err := r.get(ctx, KeyPatterns); err != nil {
		return Snapshot{}, err
	} else if ok {
		patterns, err := decodePatterns([]byte(raw))
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", KeyPatterns, err)
		}
		snap.Patterns = patterns
	}

	if raw, ok, err := r.get(ctx, KeySettings); err != nil {
		return Snapshot{}, err
	} else if ok {
		settings, err := decodeSettings([]byte(raw))
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", KeySettings, err)
		}
		snap.Settings = settings
	}

	return snap, nil
}

func (r *repository) get(ctx context.Context, key string) (string, bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (r *repository) SavePeople(ctx context.Context, people []Person) error {
	return r.set(ctx, KeyPeople, people)
}

func (r *repository) SavePatterns(ctx context.Context, patterns []WorkPattern) error {
	return r.set(ctx, KeyPatterns, patterns)
}

func (r *repository) SaveSettings(ctx context.Context, settings Settings) error {
	return r.set(ctx, KeySettings, settings)
}

func (r *repository) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, string(data))
}

func (r *repository) Clear(ctx context.Context) error {
	for _, key := range []string{KeyPeople, KeyPatterns, KeySettings} {
		if err := r.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
