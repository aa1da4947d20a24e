package component

import (
	"maps"
	"sync"
)

// Target is a mount location whose content a component replaces.
type Target interface {
	SetInnerHTML(html string)
}

// State is a component's mutable state. SetState merges shallowly.
type State map[string]any

// Component renders a template into a target.
type Component struct {
	target Target
	props  any
	state  State

	setup     func(c *Component)
	setEvents func(c *Component)
	template  func(c *Component) string
	mounted   func(c *Component)

	listeners []listener
	renders   int
}

// Option configures a Component.
type Option func(*Component)

// WithState sets the initial state.
func WithState(initial State) Option {
	return func(c *Component) {
		c.state = maps.Clone(initial)
	}
}

// WithSetup sets a hook that runs once, before the first render.
func WithSetup(fn func(c *Component)) Option {
	return func(c *Component) {
		c.setup = fn
	}
}

// WithTemplate sets the function producing the component's markup.
func WithTemplate(fn func(c *Component) string) Option {
	return func(c *Component) {
		c.template = fn
	}
}

// WithMounted sets a hook that runs after every render.
func WithMounted(fn func(c *Component)) Option {
	return func(c *Component) {
		c.mounted = fn
	}
}

// New creates a component, runs its setup and events hooks and renders it.
func New(target Target, props any, opts ...Option) *Component {
	c := &Component{
		target: target,
		props:  props,
		state:  State{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.setup != nil {
		c.setup(c)
	}
	if c.setEvents != nil {
		c.setEvents(c)
	}
	c.Render()
	return c
}

// Target returns the component's mount location.
func (c *Component) Target() Target {
	return c.target
}

// Props returns the properties the component was constructed with.
func (c *Component) Props() any {
	return c.props
}

// State returns a copy of the current state.
func (c *Component) State() State {
	return maps.Clone(c.state)
}

// Get returns a single state value.
func (c *Component) Get(key string) any {
	return c.state[key]
}

// SetState merges partial into the state and re-renders.
func (c *Component) SetState(partial State) {
	if c.state == nil {
		c.state = State{}
	}
	maps.Copy(c.state, partial)
	c.Render()
}

// Render replaces the target's content with the template output and then
// runs the mounted hook. A component without a template renders "".
func (c *Component) Render() {
	html := ""
	if c.template != nil {
		html = c.template(c)
	}
	if c.target != nil {
		c.target.SetInnerHTML(html)
	}
	c.renders++
	if c.mounted != nil {
		c.mounted(c)
	}
}

// Renders returns how many times the component has rendered.
func (c *Component) Renders() int {
	return c.renders
}

// Buffer is an in-memory Target.
type Buffer struct {
	mu     sync.Mutex
	html   string
	writes int
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// SetInnerHTML implements Target.
func (b *Buffer) SetInnerHTML(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.html = html
	b.writes++
}

// HTML returns the last written markup.
func (b *Buffer) HTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}

// Writes returns the number of SetInnerHTML calls.
func (b *Buffer) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// TargetFunc adapts a function to Target.
type TargetFunc func(html string)

// SetInnerHTML implements Target.
func (f TargetFunc) SetInnerHTML(html string) {
	f(html)
}
