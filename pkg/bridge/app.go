package bridge

import (
	"context"
	"log/slog"

	"github.com/vango-dev/navshell/pkg/component"
	"github.com/vango-dev/navshell/pkg/metrics"
	"github.com/vango-dev/navshell/pkg/router"
	"github.com/vango-dev/navshell/pkg/storage"
)

// App is one application instance bound to one connection.
type App interface {
	// Router returns the router that handles the connection's navigation.
	Router() *router.Router

	// Close releases the instance. It is called once, after the event loop
	// has stopped.
	Close()
}

// Env carries the browser capabilities of one connection to an AppFactory.
type Env struct {
	// ID identifies the browser. It is stable across reconnects of the
	// same browser.
	ID string

	// Context is cancelled when the connection closes.
	Context context.Context

	History  *RemoteHistory
	Root     *RemoteTarget
	Boundary *component.Boundary

	// Storage is namespaced to the browser, like window.localStorage.
	Storage storage.Storage

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	targets *targetSet
}

// Target returns the target for the element with the given id. On a live
// connection the same id always yields the same target, so events
// delegated from it reach its listeners.
func (e *Env) Target(id string) *RemoteTarget {
	if e.targets != nil {
		return e.targets.get(id)
	}
	return NewRemoteTarget(id, e.Root.send)
}

// AppFactory builds the application for a new connection.
type AppFactory func(env *Env) (App, error)
