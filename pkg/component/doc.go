// Package component provides the base UI component of navshell and the
// shell-wide error boundary.
//
// A Component renders markup into a Target. It carries the properties it
// was constructed with and a State map; SetState merges a partial state and
// re-renders. Every render writes the template's output into the target and
// then runs the Mounted hook, so event wiring placed in Mounted always sees
// the fresh markup.
//
//	root := component.NewBuffer()
//	counter := component.New(root, nil,
//	    component.WithState(component.State{"count": 0}),
//	    component.WithTemplate(func(c *component.Component) string {
//	        return fmt.Sprintf("<p>%d</p>", c.Get("count"))
//	    }),
//	)
//	counter.SetState(component.State{"count": 1})
//	// root.HTML() == "<p>1</p>"
//
// # Events
//
// AddEvent delegates DOM events: one listener per event type and selector is
// attached to the target itself, and it fires for events raised inside any
// element matching the selector. Because the listener lives on the target,
// it keeps working across re-renders. Register listeners in the WithEvents
// hook, which runs once between setup and the first render.
//
//	component.WithEvents(func(c *component.Component) {
//	    c.AddEvent("submit", "#login-form", func(ev component.Event) {
//	        signIn(ev.Value("user"))
//	    })
//	})
//
// # Error Boundary
//
// A Boundary is the last-resort fault handler of a shell instance. Guard runs
// a function and, if it panics or returns an error, replaces the root
// target's content with the fallback page carrying the fault's message.
// There is one Boundary per shell, passed by reference to whatever needs it.
package component
