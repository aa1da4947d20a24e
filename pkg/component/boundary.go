package component

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/vango-dev/navshell/internal/errors"
)

// ErrorPage renders the default fallback page for a fault message.
func ErrorPage(msg string) string {
	if msg == "" {
		msg = "Something went wrong."
	}
	return `<section class="error-boundary">` +
		`<h1>Something went wrong</h1>` +
		`<p class="error-message">` + Escape(msg) + `</p>` +
		`<a href="/" data-link>Back to home</a>` +
		`</section>`
}

// Boundary catches faults that escaped every handler and renders the
// fallback page into the root target.
type Boundary struct {
	root   Target
	page   func(msg string) string
	logger *slog.Logger
	faults int
}

// BoundaryOption configures a Boundary.
type BoundaryOption func(*Boundary)

// WithErrorPage replaces the fallback page renderer.
func WithErrorPage(page func(msg string) string) BoundaryOption {
	return func(b *Boundary) {
		if page != nil {
			b.page = page
		}
	}
}

// WithBoundaryLogger sets the logger.
func WithBoundaryLogger(l *slog.Logger) BoundaryOption {
	return func(b *Boundary) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBoundary creates a boundary rendering into root.
func NewBoundary(root Target, opts ...BoundaryOption) *Boundary {
	b := &Boundary{
		root:   root,
		page:   ErrorPage,
		logger: slog.Default().With("component", "boundary"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Guard runs fn. A panic or a returned error is handed to HandleError and
// returned as an uncaught-fault error; otherwise Guard returns nil.
func (b *Boundary) Guard(fn func() error) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		cause, ok := rec.(error)
		if !ok {
			cause = fmt.Errorf("%v", rec)
		}
		b.logger.Error("panic recovered", "error", cause, "stack", string(debug.Stack()))
		err = b.HandleError(cause)
	}()

	if ferr := fn(); ferr != nil {
		return b.HandleError(ferr)
	}
	return nil
}

// HandleError renders the fallback page for err into the root target.
func (b *Boundary) HandleError(err error) error {
	if err == nil {
		return nil
	}
	b.faults++

	msg := err.Error()
	var coded *errors.Error
	if stderrors.As(err, &coded) && coded.Wrapped != nil {
		msg = coded.Wrapped.Error()
	}

	b.logger.Error("uncaught fault", "error", err)
	if b.root != nil {
		b.root.SetInnerHTML(b.page(msg))
	}
	return errors.New(errors.CodeUncaught).Wrap(err)
}

// Faults returns how many faults the boundary has handled.
func (b *Boundary) Faults() int {
	return b.faults
}
