package router

import "sync"

// History is the browser history capability the router consumes.
//
// Push records a new entry without triggering a page load. Replace swaps
// the active entry for path. Current returns the path of the active entry.
// OnPop subscribes fn to back/forward notifications; the returned function
// cancels the subscription.
type History interface {
	Push(path string)
	Replace(path string)
	Current() string
	OnPop(fn func()) (unsubscribe func())
}

// MemoryHistory is an in-process history stack with browser semantics.
// Push discards forward entries; Back, Forward and Go move within the stack
// and notify pop listeners, as a browser's popstate event does.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func()
	nextID    int
}

// NewMemoryHistory creates a history whose single entry is initial.
func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{
		entries:   []string{initial},
		listeners: make(map[int]func()),
	}
}

// Push appends path after the current entry.
func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

// Replace overwrites the active entry. Forward entries are kept.
func (h *MemoryHistory) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

// Entries returns a copy of the stack, oldest first.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Current returns the active entry's path.
func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Len returns the number of entries in the stack.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// OnPop subscribes fn to back/forward notifications.
func (h *MemoryHistory) OnPop(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Back moves one entry back. It reports false at the start of the stack.
func (h *MemoryHistory) Back() bool {
	return h.Go(-1)
}

// Forward moves one entry forward. It reports false at the end of the stack.
func (h *MemoryHistory) Forward() bool {
	return h.Go(1)
}

// Go moves delta entries and notifies listeners. Out-of-range moves and a
// zero delta do nothing and report false.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	listeners := make([]func(), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	h.mu.Unlock()

	// Listeners run unlocked so they may call Current or Push.
	for _, fn := range listeners {
		fn()
	}
	return true
}
