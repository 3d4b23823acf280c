package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lumenlab/glossa/internal/core"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisIncrWindow(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	key := "ratelimit:window:api:192.0.2.7"

	count, ttl, err := s.IncrWindow(ctx, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl = %v, want within (0, 1m]", ttl)
	}

	// later hits must not refresh the TTL, or the fixed window slides
	mr.FastForward(30 * time.Second)
	count, ttl, err = s.IncrWindow(ctx, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if ttl > 30*time.Second {
		t.Fatalf("ttl = %v after half the window, want <= 30s", ttl)
	}

	// the window lapses and the counter restarts
	mr.FastForward(31 * time.Second)
	count, _, err = s.IncrWindow(ctx, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count after window lapse = %d, want 1", count)
	}
}

func TestRedisIncrWindowKeyAlwaysExpires(t *testing.T) {
	s, mr := newRedisStore(t)
	key := "ratelimit:window:upload:u1"

	if _, _, err := s.IncrWindow(context.Background(), key, time.Hour); err != nil {
		t.Fatal(err)
	}

	// a window counter without a TTL would throttle its scope forever
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("window key TTL = %v, want positive", ttl)
	}
}

func TestRedisIncr(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()
	key := "ratelimit:user:u1:message"

	for want := int64(1); want <= 3; want++ {
		count, err := s.Incr(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
	}

	if err := s.Del(ctx, key); err != nil {
		t.Fatal(err)
	}
	count, err := s.Incr(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("count after reset = %d, want 1", count)
	}
}

func TestRedisGetSetEx(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, core.ErrKeyNotFound) {
		t.Fatalf("Get missing = %v, want ErrKeyNotFound", err)
	}

	if err := s.SetEx(ctx, "translation:abc", []byte("hallo"), time.Minute); err != nil {
		t.Fatal(err)
	}
	value, err := s.Get(ctx, "translation:abc")
	if err != nil {
		t.Fatal(err)
	}
	if string(value) != "hallo" {
		t.Fatalf("value = %q", value)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := s.Get(ctx, "translation:abc"); !errors.Is(err, core.ErrKeyNotFound) {
		t.Fatalf("Get after expiry = %v, want ErrKeyNotFound", err)
	}
}

func TestRedisDelPrefix(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	for _, key := range []string{"ai:1", "ai:2", "ai:3", "translation:1"} {
		if err := s.SetEx(ctx, key, []byte("v"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DelPrefix(ctx, "ai:"); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"ai:1", "ai:2", "ai:3"} {
		if _, err := s.Get(ctx, key); !errors.Is(err, core.ErrKeyNotFound) {
			t.Errorf("%s survived DelPrefix", key)
		}
	}
	if _, err := s.Get(ctx, "translation:1"); err != nil {
		t.Errorf("unrelated key deleted: %v", err)
	}
}
