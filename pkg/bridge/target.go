package bridge

import (
	"sync"

	"github.com/vango-dev/navshell/pkg/component"
)

// RemoteTarget is a mount point in the client's document. It implements
// component.EventTarget: SetInnerHTML sends html frames and Listen asks the
// client to delegate matching DOM events back as event frames.
type RemoteTarget struct {
	id   string
	send func(*Frame)

	mu        sync.Mutex
	listeners []targetListener
}

type targetListener struct {
	eventType string
	selector  string
	fn        func(component.Event)
}

// NewRemoteTarget creates a target for the element with the given id.
func NewRemoteTarget(id string, send func(*Frame)) *RemoteTarget {
	return &RemoteTarget{id: id, send: send}
}

// ID returns the element id.
func (t *RemoteTarget) ID() string {
	return t.id
}

// SetInnerHTML replaces the element's inner markup on the client.
func (t *RemoteTarget) SetInnerHTML(html string) {
	if t.send != nil {
		t.send(HTMLFrame(t.id, html))
	}
}

// Listen registers fn and tells the client to forward events of eventType
// raised inside elements matching selector. The client is told once per
// event type and selector.
func (t *RemoteTarget) Listen(eventType, selector string, fn func(component.Event)) {
	t.mu.Lock()
	announced := false
	for _, l := range t.listeners {
		if l.eventType == eventType && l.selector == selector {
			announced = true
			break
		}
	}
	t.listeners = append(t.listeners, targetListener{eventType: eventType, selector: selector, fn: fn})
	t.mu.Unlock()

	if !announced && t.send != nil {
		t.send(ListenFrame(t.id, eventType, selector))
	}
}

// Dispatch runs the listeners registered for ev's type and selector. It
// reports whether any listener ran.
func (t *RemoteTarget) Dispatch(ev component.Event) bool {
	t.mu.Lock()
	var fns []func(component.Event)
	for _, l := range t.listeners {
		if l.eventType == ev.Type && l.selector == ev.Selector {
			fns = append(fns, l.fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	return len(fns) > 0
}

// targetSet holds the targets of one connection by element id.
type targetSet struct {
	mu   sync.Mutex
	send func(*Frame)
	byID map[string]*RemoteTarget
}

func newTargetSet(send func(*Frame)) *targetSet {
	return &targetSet{send: send, byID: make(map[string]*RemoteTarget)}
}

// get returns the target for id, creating it on first use.
func (s *targetSet) get(id string) *RemoteTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byID[id]; ok {
		return t
	}
	t := NewRemoteTarget(id, s.send)
	s.byID[id] = t
	return t
}

func (s *targetSet) lookup(id string) (*RemoteTarget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	return t, ok
}
