// Package storage provides navshell's key/value persistence.
//
// Two layers are involved. A Backend is a durable string store with the
// shape of a browser's localStorage: get, set and remove text by key.
// Storage is the uniform contract the application uses; LocalStorage
// implements it by encoding values as JSON over any Backend.
//
// # Backends
//
//   - MemoryBackend: process-local map, the default
//   - RedisBackend: go-redis client, keys under a prefix
//   - SQLBackend: one table of (key, value) rows via sqlx
//   - S3Backend: one object per key under a prefix
//
// The backend is chosen once, at construction time, with Open.
//
// # Usage
//
//	store := storage.NewLocalStorage(storage.NewMemoryBackend())
//	_ = store.SetItem(ctx, "auth", Session{User: "ada"})
//
//	var s Session
//	found, err := store.GetItem(ctx, "auth", &s)
//
// A missing key reports found == false with a nil error. Text that is not
// valid JSON for the target fails with an N004 error; the caller decides how
// to recover.
package storage
