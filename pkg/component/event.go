package component

// Event is a DOM event delivered to a component's delegated listener.
type Event struct {
	// Type is the DOM event type, e.g. "click" or "submit".
	Type string

	// Selector is the selector the listener was registered with.
	Selector string

	// ID is the id of the element matched by Selector, if it has one.
	ID string

	// Values holds the named controls of the submitted form.
	Values map[string]string
}

// Value returns the form value bound to name, or "".
func (e Event) Value(name string) string {
	return e.Values[name]
}

// EventTarget is a Target that can deliver delegated DOM events. Listen
// registers fn for events of eventType whose target lies inside an element
// matching selector, within the mount location.
type EventTarget interface {
	Target
	Listen(eventType, selector string, fn func(Event))
}

type listener struct {
	eventType string
	selector  string
	fn        func(Event)
}

// WithEvents sets a hook that registers listeners. It runs once, after the
// setup hook and before the first render.
func WithEvents(fn func(c *Component)) Option {
	return func(c *Component) {
		c.setEvents = fn
	}
}

// AddEvent registers fn for events of eventType on elements matching
// selector inside the component's target. One listener is attached to the
// target itself, so it survives re-renders. Targets that implement
// EventTarget receive the registration.
func (c *Component) AddEvent(eventType, selector string, fn func(Event)) {
	if fn == nil {
		return
	}
	c.listeners = append(c.listeners, listener{eventType: eventType, selector: selector, fn: fn})
	if t, ok := c.target.(EventTarget); ok {
		t.Listen(eventType, selector, fn)
	}
}

// Dispatch runs the listeners registered for ev's type and selector in
// registration order. It reports whether any listener ran.
func (c *Component) Dispatch(ev Event) bool {
	ran := false
	for _, l := range c.listeners {
		if l.eventType == ev.Type && l.selector == ev.Selector {
			l.fn(ev)
			ran = true
		}
	}
	return ran
}
