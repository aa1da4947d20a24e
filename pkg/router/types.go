package router

// NotFound is the error key consulted when no route matches.
const NotFound = "not-found"

// Handler handles a matched route.
type Handler func(params Params)

// Params maps placeholder names to the values captured from the path.
type Params map[string]string

// Get returns the value bound to name, or "" when absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Match is the result of matching a path against the route table.
type Match struct {
	// Pattern is the declared pattern of the matched route (e.g. "/users/:id").
	Pattern string

	// Handler is the route's handler.
	Handler Handler

	// Params are the extracted placeholder values.
	Params Params

	// Names lists the placeholder names in declaration order.
	Names []string
}

// State is the router's dispatch state.
type State int

const (
	// StateIdle means no dispatch is in progress.
	StateIdle State = iota
	// StateDispatching means a path is being matched or its handler is running.
	StateDispatching
)

// String returns the state name.
func (s State) String() string {
	if s == StateDispatching {
		return "dispatching"
	}
	return "idle"
}
