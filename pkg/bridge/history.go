package bridge

import (
	"sort"
	"sync"
)

// RemoteHistory is the browser's history as seen from the server. It
// implements router.History: Push and Replace record the path and send a
// push or replace frame; popstate events from the client move the current
// path and notify listeners through Pop.
type RemoteHistory struct {
	mu        sync.Mutex
	current   string
	send      func(*Frame)
	listeners map[int]func()
	nextID    int
}

// NewRemoteHistory creates a history positioned at initial. Frames are
// delivered through send.
func NewRemoteHistory(initial string, send func(*Frame)) *RemoteHistory {
	if initial == "" {
		initial = "/"
	}
	return &RemoteHistory{
		current:   initial,
		send:      send,
		listeners: make(map[int]func()),
	}
}

// Push records path as the current location and tells the client to push it.
func (h *RemoteHistory) Push(path string) {
	h.mu.Lock()
	h.current = path
	h.mu.Unlock()
	if h.send != nil {
		h.send(PushFrame(path))
	}
}

// Current returns the current path.
func (h *RemoteHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Replace records path as the current location and tells the client to
// replace its current entry, so redirects leave no entry behind.
func (h *RemoteHistory) Replace(path string) {
	h.mu.Lock()
	h.current = path
	h.mu.Unlock()
	if h.send != nil {
		h.send(ReplaceFrame(path))
	}
}

// Locate moves the current path without notifying anyone. The client
// already shows path.
func (h *RemoteHistory) Locate(path string) {
	h.mu.Lock()
	h.current = path
	h.mu.Unlock()
}

// OnPop registers fn for back/forward notifications.
func (h *RemoteHistory) OnPop(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Pop applies a client back/forward move to path and notifies listeners in
// subscription order.
func (h *RemoteHistory) Pop(path string) {
	h.mu.Lock()
	h.current = path
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
