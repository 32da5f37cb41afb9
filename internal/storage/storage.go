package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is a synchronous durable key-value store. Values are opaque bytes;
// callers serialize whole collections as JSON and rewrite them on every
// mutation.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Disabled is the store used when no durable backend is available. Reads
// always miss and writes are silent no-ops, so callers fall back to default
// values without surfacing errors.
type Disabled struct{}

func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) Get(context.Context, string) ([]byte, error) {
	return nil, ErrKeyNotFound
}

func (Disabled) Set(context.Context, string, []byte) error {
	return nil
}

func (Disabled) Delete(context.Context, string) error {
	return nil
}

func (Disabled) Close() error {
	return nil
}
