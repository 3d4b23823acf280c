package core

import (
	"context"
	"time"
)

// IdentityStore resolves a verified subject id to an Identity.
// Implementations: Postgres store, in-memory store (tests, static config).
type IdentityStore interface {
	// FindByID returns the identity for the given id, or ErrIdentityNotFound.
	FindByID(ctx context.Context, id string) (*Identity, error)
}

// CounterStore is the shared key-value store backing rate counters and the
// response cache. The only storage assumptions the gate makes are atomic
// increments and TTL expiry.
// Implementations: Redis store, in-memory store (tests, single-node dev).
type CounterStore interface {
	// Incr atomically increments the counter at key and returns the new
	// value. The key is created at 1 if it does not exist and never expires.
	Incr(ctx context.Context, key string) (int64, error)

	// IncrWindow atomically increments the counter at key, attaching the
	// window as TTL on first increment. It returns the new value and the
	// time remaining until the window resets.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)

	// Get returns the value stored at key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetEx stores value at key with the given TTL.
	SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error

	// DelPrefix removes every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
}

// Backend is the external compute collaborator (AI chat / translation).
// Invoke sends a normalized payload for the given kind and returns the raw
// response body. The backend call is the single long-latency operation in
// the pipeline and must never run under a lock.
type Backend interface {
	Invoke(ctx context.Context, kind string, payload any) ([]byte, error)
}
