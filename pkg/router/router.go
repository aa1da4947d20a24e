package router

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/navshell/internal/errors"
	"github.com/vango-dev/navshell/pkg/metrics"
)

const tracerName = "github.com/vango-dev/navshell/pkg/router"

// route is one entry of the ordered route table.
type route struct {
	pattern string
	handler Handler
	matcher *matcher
}

// Router manages the route table, dispatch and navigation state.
type Router struct {
	AuthGate

	routes        []*route
	index         map[string]int
	errorHandlers map[string]func()

	// Navigation state of the last successful match.
	matched bool
	pattern string
	params  Params

	depth int

	history     History
	unsubscribe func()

	ctx     context.Context
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Router.
type Option func(*Router)

// WithHistory sets the history the router pushes to and listens on.
// Default: a MemoryHistory starting at "/".
func WithHistory(h History) Option {
	return func(r *Router) {
		r.history = h
	}
}

// WithRegistry sets the route registry used by FilterRoutesByAuth.
func WithRegistry(reg Registry) Option {
	return func(r *Router) {
		r.registry = reg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records dispatches into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for dispatch spans.
// Default: the global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Router) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithContext sets the parent context of dispatch spans.
func WithContext(ctx context.Context) Option {
	return func(r *Router) {
		if ctx != nil {
			r.ctx = ctx
		}
	}
}

// NewRouter creates a router and subscribes it to its history's pop
// notifications. Call Close to release the subscription.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		index:         make(map[string]int),
		errorHandlers: make(map[string]func()),
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewMemoryHistory("/")
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "router")
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	r.unsubscribe = r.history.OnPop(r.handlePopState)
	return r
}

// Close unsubscribes the router from its history.
func (r *Router) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// AddRoute registers handler for pattern. Registering an existing pattern
// replaces its handler and keeps the entry's original position.
func (r *Router) AddRoute(pattern string, handler Handler) {
	m, err := compilePattern(pattern)
	if err != nil {
		r.logger.Warn("route pattern does not compile", "pattern", pattern, "error", err)
	}
	entry := &route{pattern: pattern, handler: handler, matcher: m}

	if i, ok := r.index[pattern]; ok {
		r.routes[i] = entry
		return
	}
	r.index[pattern] = len(r.routes)
	r.routes = append(r.routes, entry)
}

// Routes returns the registered patterns in match order.
func (r *Router) Routes() []string {
	patterns := make([]string, len(r.routes))
	for i, rt := range r.routes {
		patterns[i] = rt.pattern
	}
	return patterns
}

// SetError registers a named error handler. Only NotFound is consulted
// during dispatch.
func (r *Router) SetError(key string, handler func()) {
	r.errorHandlers[key] = handler
}

// MatchRoute returns the first registered route matching path.
func (r *Router) MatchRoute(path string) (*Match, bool) {
	for _, rt := range r.routes {
		if rt.matcher == nil {
			continue
		}
		params, ok := rt.matcher.match(path)
		if !ok {
			continue
		}
		return &Match{
			Pattern: rt.pattern,
			Handler: rt.handler,
			Params:  params,
			Names:   append([]string(nil), rt.matcher.names...),
		}, true
	}
	return nil, false
}

// NavigateTo pushes path onto the history and dispatches it.
func (r *Router) NavigateTo(path string) {
	r.metrics.IncNavigations()
	r.history.Push(path)
	r.HandleRoute(path)
}

// Redirect replaces the current history entry with path and dispatches it.
// Handlers use it to send the user elsewhere without leaving the original
// path in the history, so Back does not land on the redirect again.
func (r *Router) Redirect(path string) {
	r.metrics.IncNavigations()
	r.history.Replace(path)
	r.HandleRoute(path)
}

// CurrentPath returns the history's current path.
func (r *Router) CurrentPath() string {
	return r.history.Current()
}

// History returns the history the router is bound to.
func (r *Router) History() History {
	return r.history
}

// IsLocated reports whether the pattern of the last matched route equals
// pattern. Parameterized routes compare by their declared pattern.
func (r *Router) IsLocated(pattern string) bool {
	return r.matched && r.pattern == pattern
}

// Pattern returns the pattern of the last matched route.
func (r *Router) Pattern() string {
	return r.pattern
}

// Params returns the params of the last matched route. Failed matches leave
// them unchanged.
func (r *Router) Params() Params {
	return r.params
}

// State reports whether a dispatch is in progress.
func (r *Router) State() State {
	if r.depth > 0 {
		return StateDispatching
	}
	return StateIdle
}

// HandleRoute dispatches path. A match stores the navigation state and runs
// the route's handler. Otherwise the NotFound handler runs; when none is
// registered the miss is logged and nothing else happens. Routing faults
// never escape; panics raised by handlers do.
func (r *Router) HandleRoute(path string) {
	start := time.Now()
	_, span := r.tracer.Start(r.ctx, "router.dispatch",
		trace.WithAttributes(attribute.String("navshell.path", path)))
	result := metrics.ResultPanic

	r.depth++
	defer func() {
		r.depth--
		if result == metrics.ResultPanic {
			span.SetStatus(codes.Error, "handler panicked")
		}
		span.SetAttributes(attribute.String("navshell.result", result))
		span.End()
		r.metrics.ObserveDispatch(result, time.Since(start))
	}()

	if m, ok := r.MatchRoute(path); ok {
		r.matched = true
		r.pattern = m.Pattern
		r.params = m.Params
		span.SetAttributes(attribute.String("navshell.route", m.Pattern))
		if m.Handler != nil {
			m.Handler(m.Params)
		}
		result = metrics.ResultMatched
		return
	}

	if notFound := r.errorHandlers[NotFound]; notFound != nil {
		r.logger.Debug("no route matched", "path", path)
		notFound()
		result = metrics.ResultNotFound
		return
	}

	err := errors.New(errors.CodeNoNotFound).WithDetail(path)
	r.logger.Error(err.Message, "path", path, "code", err.Code)
	result = metrics.ResultUnhandled
}

// handlePopState re-dispatches the current path after back/forward.
func (r *Router) handlePopState() {
	r.HandleRoute(r.history.Current())
}
