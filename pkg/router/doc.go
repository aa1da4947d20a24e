// Package router implements client-side navigation for navshell.
//
// The router provides:
//   - Ordered route table: the first registered pattern that matches wins
//   - Named placeholders (":id") extracted into Params
//   - History integration: NavigateTo pushes, back/forward re-dispatches
//   - An auth gate that filters a route registry by authentication state
//   - A "not-found" error handler consulted when nothing matches
//
// # Patterns
//
// A pattern is literal text plus placeholders. A placeholder is a colon
// followed by one or more word characters and captures one or more word
// characters or hyphens from the path:
//
//	/users/:id          matches /users/42, /users/ab-cd
//	/users/:id/posts    does not match /users/42
//
// Matching is anchored: /users/:id does not match /users/42/extra.
//
// # Usage
//
//	hist := router.NewMemoryHistory("/")
//	r := router.NewRouter(router.WithHistory(hist))
//	defer r.Close()
//
//	r.AddRoute("/users/:id", func(p router.Params) {
//	    // p["id"] == "42"
//	})
//	r.SetError(router.NotFound, func() { renderNotFound() })
//
//	r.NavigateTo("/users/42")
//	hist.Back() // re-dispatches against the previous path
//
// # Concurrency
//
// A Router is owned by a single goroutine, the same one that receives its
// history's pop notifications. Dispatch is synchronous; a handler that
// navigates again runs the nested dispatch to completion before returning.
package router
