package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// fakeRedis is an in-memory RedisClient.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	b := NewRedisBackend(client, WithRedisTTL(time.Hour))

	if _, found, err := b.Get(ctx, "k"); found || err != nil {
		t.Fatalf("Get(missing) = %v, %v", found, err)
	}
	if err := b.Set(ctx, "k", `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if client.data["navshell:k"] != `{"a":1}` {
		t.Errorf("stored under wrong key: %v", client.data)
	}
	if client.ttls["navshell:k"] != time.Hour {
		t.Errorf("ttl = %v, want 1h", client.ttls["navshell:k"])
	}
	v, found, err := b.Get(ctx, "k")
	if err != nil || !found || v != `{"a":1}` {
		t.Errorf("Get = %q, %v, %v", v, found, err)
	}
	if err := b.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, found, _ := b.Get(ctx, "k"); found {
		t.Error("key still present after Remove")
	}
}

func TestRedisBackendPrefix(t *testing.T) {
	b := NewRedisBackend(newFakeRedis(), WithRedisPrefix("app:"))
	if b.Prefix() != "app:" {
		t.Errorf("Prefix() = %q", b.Prefix())
	}
}

func TestRedisBackendErrors(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.err = stderrors.New("dial tcp: refused")
	b := NewRedisBackend(client)

	if _, _, err := b.Get(ctx, "k"); err == nil {
		t.Error("Get should fail")
	}
	if err := b.Set(ctx, "k", "v"); err == nil {
		t.Error("Set should fail")
	}
	if err := b.Remove(ctx, "k"); err == nil {
		t.Error("Remove should fail")
	}
}

func TestRedisBackendWithLocalStorage(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStorage(NewRedisBackend(newFakeRedis()))

	if err := store.SetItem(ctx, "prefs", map[string]any{"theme": "dark"}); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	var prefs map[string]string
	if found, err := store.GetItem(ctx, "prefs", &prefs); err != nil || !found {
		t.Fatalf("GetItem = %v, %v", found, err)
	}
	if prefs["theme"] != "dark" {
		t.Errorf("prefs = %v", prefs)
	}
}
