package storage

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/navshell/internal/errors"
	"github.com/vango-dev/navshell/pkg/metrics"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStorage(NewMemoryBackend())

	values := map[string]any{
		"string": "hello",
		"number": 42.5,
		"bool":   true,
		"null":   nil,
		"list":   []any{"x", 1.0, false, nil},
		"object": map[string]any{"user": "ada", "roles": []any{"admin"}, "nested": map[string]any{"n": 2.0}},
	}

	for key, v := range values {
		t.Run(key, func(t *testing.T) {
			if err := store.SetItem(ctx, key, v); err != nil {
				t.Fatalf("SetItem: %v", err)
			}
			var got any
			found, err := store.GetItem(ctx, key, &got)
			if err != nil {
				t.Fatalf("GetItem: %v", err)
			}
			if !found {
				t.Fatal("GetItem: not found")
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("round trip = %#v, want %#v", got, v)
			}
		})
	}
}

type session struct {
	User  string   `json:"user"`
	Roles []string `json:"roles"`
}

func TestLocalStorageTypedGet(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStorage(NewMemoryBackend())

	want := session{User: "ada", Roles: []string{"admin"}}
	if err := store.SetItem(ctx, "auth", want); err != nil {
		t.Fatalf("SetItem: %v", err)
	}

	got, found, err := Get[session](ctx, store, "auth")
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestLocalStorageMissingKey(t *testing.T) {
	store := NewLocalStorage(NewMemoryBackend())

	var v any = "unchanged"
	found, err := store.GetItem(context.Background(), "missing", &v)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if found {
		t.Error("found = true for missing key")
	}
	if v != "unchanged" {
		t.Errorf("target modified: %v", v)
	}
}

func TestLocalStorageMalformedValue(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	backend.Set(ctx, "auth", "{not json")
	store := NewLocalStorage(backend)

	var v any
	_, err := store.GetItem(ctx, "auth", &v)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if !errors.HasCode(err, errors.CodeDeserialize) {
		t.Errorf("error = %v, want N004", err)
	}
}

func TestLocalStorageRemove(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStorage(NewMemoryBackend())
	store.SetItem(ctx, "k", 1)

	if err := store.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	var v int
	if found, _ := store.GetItem(ctx, "k", &v); found {
		t.Error("key still present after RemoveItem")
	}
	if err := store.RemoveItem(ctx, "k"); err != nil {
		t.Errorf("RemoveItem of a missing key: %v", err)
	}
}

func TestLocalStoragePrefixAndNamespace(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewLocalStorage(backend, WithPrefix("app:"))
	client := store.Namespace("c1:")

	store.SetItem(ctx, "a", 1)
	client.SetItem(ctx, "a", 2)

	want := []string{"app:a", "app:c1:a"}
	if got := backend.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	var v int
	client.GetItem(ctx, "a", &v)
	if v != 2 {
		t.Errorf("namespaced value = %d, want 2", v)
	}
}

type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingBackend) Set(context.Context, string, string) error         { return f.err }
func (f failingBackend) Remove(context.Context, string) error              { return f.err }

func TestLocalStorageBackendErrors(t *testing.T) {
	ctx := context.Background()
	cause := stderrors.New("connection refused")
	store := NewLocalStorage(failingBackend{err: cause})

	var v any
	if _, err := store.GetItem(ctx, "k", &v); !errors.HasCode(err, errors.CodeBackend) || !stderrors.Is(err, cause) {
		t.Errorf("GetItem error = %v", err)
	}
	if err := store.SetItem(ctx, "k", 1); !errors.HasCode(err, errors.CodeBackend) {
		t.Errorf("SetItem error = %v", err)
	}
	if err := store.RemoveItem(ctx, "k"); !errors.HasCode(err, errors.CodeBackend) {
		t.Errorf("RemoveItem error = %v", err)
	}
}

func TestLocalStorageEncodeError(t *testing.T) {
	store := NewLocalStorage(NewMemoryBackend())
	if err := store.SetItem(context.Background(), "ch", make(chan int)); err == nil {
		t.Error("expected an encode error for a channel")
	}
}

func TestLocalStorageMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	store := NewLocalStorage(NewMemoryBackend(), WithMetrics(metrics.New(metrics.WithRegistry(reg))))

	store.SetItem(ctx, "k", 1)
	var v int
	store.GetItem(ctx, "k", &v)
	store.RemoveItem(ctx, "k")

	count, err := testutil.GatherAndCount(reg, "navshell_storage_ops_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if count != 3 {
		t.Errorf("storage op series = %d, want 3", count)
	}
}
