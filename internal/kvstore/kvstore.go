// Package kvstore abstracts the persistence medium behind a minimal string
// key-value contract so the review core stays testable without a real
// backend. The host wires in whichever implementation it has.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is the raw persistence primitive consumed by the review store.
// Every call may fail; callers must tolerate absence and partial failure.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
