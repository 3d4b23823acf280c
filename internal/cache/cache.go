// Package cache memoizes backend responses under deterministic
// content-derived keys. Reads and writes are best effort: a store outage
// degrades to always-miss, a failed write skips memoization for that call,
// and neither is ever surfaced to the caller.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/metrics"
)

// Kind classifies a cached payload and selects its TTL.
type Kind string

const (
	KindUser         Kind = "user"
	KindConversation Kind = "conversation"
	KindAI           Kind = "ai"
	KindTranslation  Kind = "translation"
)

// corruptPrefix marks a historical class of corrupted writes where an
// object was stringified instead of serialized. Such entries are deleted on
// read and treated as a miss.
var corruptPrefix = []byte("[object")

// TTLs holds the per-kind expiry durations.
type TTLs struct {
	User         time.Duration
	Conversation time.Duration
	AI           time.Duration
	Translation  time.Duration
}

type Cache struct {
	store    core.CounterStore
	ttls     TTLs
	recorder metrics.Recorder
}

func New(store core.CounterStore, ttls TTLs, recorder metrics.Recorder) *Cache {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Cache{store: store, ttls: ttls, recorder: recorder}
}

// Key derives the store key for (kind, payload). Identical payloads always
// derive identical keys; that determinism is what memoization correctness
// rests on.
func Key(kind Kind, payload any) (string, error) {
	canonical, err := canonicalize(payload)
	if err != nil {
		return "", err
	}
	return string(kind) + ":" + digest(kind, canonical), nil
}

func (c *Cache) ttl(kind Kind) time.Duration {
	switch kind {
	case KindUser:
		return c.ttls.User
	case KindConversation:
		return c.ttls.Conversation
	case KindAI:
		return c.ttls.AI
	case KindTranslation:
		return c.ttls.Translation
	default:
		return time.Hour
	}
}

// Get returns the cached value for (kind, payload), or ok=false on a miss.
// Store errors and corrupted entries both degrade to a miss.
func (c *Cache) Get(ctx context.Context, kind Kind, payload any) ([]byte, bool) {
	key, err := Key(kind, payload)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", string(kind)).Msg("cache.key_derivation_failed")
		return nil, false
	}

	value, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache.degraded")
		}
		c.recorder.CacheMiss(string(kind))
		return nil, false
	}

	if bytes.HasPrefix(value, corruptPrefix) {
		// Self-heal: drop the corrupt entry instead of surfacing it.
		log.Ctx(ctx).Warn().Str("key", key).Msg("cache.corrupt_entry_deleted")
		if err := c.store.Del(ctx, key); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache.delete_failed")
		}
		c.recorder.CacheMiss(string(kind))
		return nil, false
	}

	c.recorder.CacheHit(string(kind))
	return value, true
}

// GetJSON unmarshals the cached value for (kind, payload) into dest. A
// non-deserializable entry is deleted and reported as a miss.
func (c *Cache) GetJSON(ctx context.Context, kind Kind, payload, dest any) bool {
	value, ok := c.Get(ctx, kind, payload)
	if !ok {
		return false
	}
	if err := json.Unmarshal(value, dest); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("cache.corrupt_entry_deleted")
		if key, kerr := Key(kind, payload); kerr == nil {
			if derr := c.store.Del(ctx, key); derr != nil {
				log.Ctx(ctx).Warn().Err(derr).Str("key", key).Msg("cache.delete_failed")
			}
		}
		return false
	}
	return true
}

// Put stores value for (kind, payload) with the kind's TTL. Failures only
// skip memoization for this call; the overall request is unaffected.
func (c *Cache) Put(ctx context.Context, kind Kind, payload any, value []byte) {
	key, err := Key(kind, payload)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", string(kind)).Msg("cache.key_derivation_failed")
		return
	}
	if err := c.store.SetEx(ctx, key, value, c.ttl(kind)); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache.write_skipped")
	}
}

// PutJSON marshals value and stores it for (kind, payload).
func (c *Cache) PutJSON(ctx context.Context, kind Kind, payload, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", string(kind)).Msg("cache.marshal_failed")
		return
	}
	c.Put(ctx, kind, payload, raw)
}

// Delete removes the entry for (kind, payload) regardless of TTL.
func (c *Cache) Delete(ctx context.Context, kind Kind, payload any) error {
	key, err := Key(kind, payload)
	if err != nil {
		return err
	}
	return c.store.Del(ctx, key)
}

// ClearKind drops every entry of one kind. Used when underlying state
// changes invalidate all prior output of that class.
func (c *Cache) ClearKind(ctx context.Context, kind Kind) error {
	return c.store.DelPrefix(ctx, string(kind)+":")
}

// ClearUser drops the cached snapshot for one user. Called on session end.
func (c *Cache) ClearUser(ctx context.Context, userID string) error {
	return c.Delete(ctx, KindUser, userID)
}
