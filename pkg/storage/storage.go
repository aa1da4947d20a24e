package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vango-dev/navshell/internal/errors"
	"github.com/vango-dev/navshell/pkg/metrics"
)

// Backend is a durable text key/value store.
//
// Get reports found == false with a nil error for a missing key. Remove
// does not fail for a missing key. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Storage is the persistence contract used by application code.
type Storage interface {
	// GetItem decodes the value stored under key into v.
	GetItem(ctx context.Context, key string, v any) (found bool, err error)

	// SetItem encodes v and stores it under key.
	SetItem(ctx context.Context, key string, v any) error

	// RemoveItem deletes key.
	RemoveItem(ctx context.Context, key string) error
}

// LocalStorage stores JSON-encoded values in a Backend.
type LocalStorage struct {
	backend Backend
	prefix  string
	metrics *metrics.Metrics
}

// LocalOption configures a LocalStorage.
type LocalOption func(*LocalStorage)

// WithPrefix namespaces every key with prefix.
func WithPrefix(prefix string) LocalOption {
	return func(s *LocalStorage) {
		s.prefix = prefix
	}
}

// WithMetrics counts operations into m.
func WithMetrics(m *metrics.Metrics) LocalOption {
	return func(s *LocalStorage) {
		s.metrics = m
	}
}

// NewLocalStorage creates a LocalStorage over backend.
func NewLocalStorage(backend Backend, opts ...LocalOption) *LocalStorage {
	s := &LocalStorage{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns a view of s whose keys live under an additional prefix.
func (s *LocalStorage) Namespace(prefix string) *LocalStorage {
	return &LocalStorage{
		backend: s.backend,
		prefix:  s.prefix + prefix,
		metrics: s.metrics,
	}
}

// Backend returns the underlying backend.
func (s *LocalStorage) Backend() Backend {
	return s.backend
}

func (s *LocalStorage) key(key string) string {
	return s.prefix + key
}

// GetItem implements Storage.
func (s *LocalStorage) GetItem(ctx context.Context, key string, v any) (bool, error) {
	raw, found, err := s.backend.Get(ctx, s.key(key))
	s.metrics.StorageOp("get", err)
	if err != nil {
		return false, errors.New(errors.CodeBackend).WithDetailf("get %q", key).Wrap(err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, errors.New(errors.CodeDeserialize).
			WithDetailf("key %q holds malformed JSON", key).
			Wrap(err)
	}
	return true, nil
}

// SetItem implements Storage.
func (s *LocalStorage) SetItem(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	err = s.backend.Set(ctx, s.key(key), string(data))
	s.metrics.StorageOp("set", err)
	if err != nil {
		return errors.New(errors.CodeBackend).WithDetailf("set %q", key).Wrap(err)
	}
	return nil
}

// RemoveItem implements Storage.
func (s *LocalStorage) RemoveItem(ctx context.Context, key string) error {
	err := s.backend.Remove(ctx, s.key(key))
	s.metrics.StorageOp("remove", err)
	if err != nil {
		return errors.New(errors.CodeBackend).WithDetailf("remove %q", key).Wrap(err)
	}
	return nil
}

// Get decodes the value stored under key as a T. A missing key returns the
// zero value and false.
func Get[T any](ctx context.Context, s Storage, key string) (T, bool, error) {
	var v T
	found, err := s.GetItem(ctx, key, &v)
	return v, found, err
}
