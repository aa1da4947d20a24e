package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/navshell/internal/errors"
	"github.com/vango-dev/navshell/pkg/component"
	"github.com/vango-dev/navshell/pkg/metrics"
)

// ConnConfig tunes a connection.
type ConnConfig struct {
	// OutboxSize is the number of frames buffered for the writer.
	OutboxSize int

	// EventQueue is the number of inbound frames buffered for the event loop.
	EventQueue int

	// ReadLimit is the maximum inbound message size in bytes.
	ReadLimit int64

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration
}

// DefaultConnConfig returns the default connection settings.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		OutboxSize:   64,
		EventQueue:   64,
		ReadLimit:    16 * 1024,
		WriteTimeout: 10 * time.Second,
	}
}

// Conn is one browser connection. Inbound frames are read by Run, handled
// in order by a single event loop goroutine, and replies are written by a
// single writer goroutine draining the outbox.
type Conn struct {
	id     string
	ws     *websocket.Conn
	config ConnConfig

	outbox chan *Frame
	events chan *Frame
	done   chan struct{}
	once   sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	history  *RemoteHistory
	targets  *targetSet
	root     *RemoteTarget
	boundary *component.Boundary
	app      App

	logger  *slog.Logger
	metrics *metrics.Metrics
}

func newConn(id string, ws *websocket.Conn, config ConnConfig, logger *slog.Logger, m *metrics.Metrics) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		id:      id,
		ws:      ws,
		config:  config,
		outbox:  make(chan *Frame, config.OutboxSize),
		events:  make(chan *Frame, config.EventQueue),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.With("conn", id),
		metrics: m,
	}
	c.history = NewRemoteHistory("/", c.Send)
	c.targets = newTargetSet(c.Send)
	c.root = c.targets.get(RootTarget)
	c.boundary = component.NewBoundary(c.root, component.WithBoundaryLogger(c.logger))
	return c
}

// ID returns the browser id the connection belongs to.
func (c *Conn) ID() string {
	return c.id
}

// History returns the connection's remote history.
func (c *Conn) History() *RemoteHistory {
	return c.history
}

// Send queues f for the writer. It blocks while the outbox is full and
// drops f once the connection is closed.
func (c *Conn) Send(f *Frame) {
	select {
	case c.outbox <- f:
	case <-c.done:
	}
}

// Done is closed when the connection closes.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// run starts the writer and the event loop and reads until the socket
// fails or the connection is closed.
func (c *Conn) run() {
	go c.writeLoop()
	go c.eventLoop()
	c.readLoop()
}

func (c *Conn) readLoop() {
	defer c.Close()

	c.ws.SetReadLimit(c.config.ReadLimit)
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := DecodeFrame(msg)
		if err != nil {
			c.metrics.FrameError("decode")
			c.logger.Warn("frame dropped", "error", err)
			c.Send(ErrorFrame(errors.FromError(err, errors.CodeInvalidFrame).FormatCompact()))
			continue
		}

		select {
		case c.events <- frame:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) eventLoop() {
	defer c.app.Close()

	for {
		select {
		case frame := <-c.events:
			c.handle(frame)
		case <-c.done:
			return
		}
	}
}

// handle runs one inbound frame under the boundary.
func (c *Conn) handle(f *Frame) {
	r := c.app.Router()
	c.boundary.Guard(func() error {
		switch f.Type {
		case FrameHello:
			c.history.Locate(f.Path)
			r.HandleRoute(f.Path)
		case FrameNavigate:
			r.NavigateTo(f.Path)
		case FramePopState:
			c.history.Pop(f.Path)
		case FrameEvent:
			c.dispatchEvent(f)
		}
		return nil
	})
}

// dispatchEvent delivers an event frame to the listeners of its target.
func (c *Conn) dispatchEvent(f *Frame) {
	t, ok := c.targets.lookup(f.Target)
	if !ok || !t.Dispatch(f.DOMEvent()) {
		c.logger.Debug("event has no listener",
			"target", f.Target, "event", f.Event, "selector", f.Selector)
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case f := <-c.outbox:
			if err := c.write(f); err != nil {
				c.logger.Error("write error", "error", err)
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) write(f *Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	c.ws.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close stops the connection's goroutines, closes the socket and releases
// the application. It is safe to call more than once.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.cancel()
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.ws.Close()
		c.metrics.ConnClosed()
		c.logger.Debug("connection closed")
	})
}
