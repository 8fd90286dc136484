package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kvstore: key not found")

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Store interface {
	// Get returns ErrNotFound when the key has never been set or was removed.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
