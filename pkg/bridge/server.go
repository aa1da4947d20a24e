package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/navshell/pkg/metrics"
	"github.com/vango-dev/navshell/pkg/storage"
)

const (
	// WebSocketPath is the WebSocket endpoint.
	WebSocketPath = "/_shell/ws"

	// ClientCookie holds the browser id.
	ClientCookie = "navshell_id"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the listen address for ListenAndServe.
	Address string

	// ShutdownTimeout bounds Shutdown.
	ShutdownTimeout time.Duration

	// AllowedOrigins lists cross-origin pages allowed to connect.
	// Same-origin connections are always allowed.
	AllowedOrigins []string

	// Title is the bootstrap page title.
	Title string

	// Conn tunes each connection.
	Conn ConnConfig

	// Backend stores every browser's items, namespaced by browser id.
	// Default: a MemoryBackend.
	Backend storage.Backend

	// StoragePrefix is prepended to every key the server writes.
	StoragePrefix string

	// Metrics receives connection, dispatch and storage metrics.
	Metrics *metrics.Metrics

	// Gatherer is exposed at /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:         ":8080",
		ShutdownTimeout: 10 * time.Second,
		Title:           "navshell",
		Conn:            DefaultConnConfig(),
	}
}

// Server serves the bootstrap page, the thin client and the WebSocket
// endpoint, and owns the live connections.
type Server struct {
	config   *ServerConfig
	factory  AppFactory
	upgrader websocket.Upgrader
	mux      chi.Router
	store    *storage.LocalStorage

	httpServer *http.Server

	mu    sync.Mutex
	conns map[*Conn]struct{}

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a server building one application per connection with factory.
func New(config *ServerConfig, factory AppFactory) *Server {
	defaults := DefaultServerConfig()
	if config == nil {
		config = defaults
	}
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.Conn.OutboxSize == 0 {
		config.Conn.OutboxSize = defaults.Conn.OutboxSize
	}
	if config.Conn.EventQueue == 0 {
		config.Conn.EventQueue = defaults.Conn.EventQueue
	}
	if config.Conn.ReadLimit == 0 {
		config.Conn.ReadLimit = defaults.Conn.ReadLimit
	}
	if config.Conn.WriteTimeout == 0 {
		config.Conn.WriteTimeout = defaults.Conn.WriteTimeout
	}
	if config.Backend == nil {
		config.Backend = storage.NewMemoryBackend()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := storage.NewLocalStorage(config.Backend,
		storage.WithPrefix(config.StoragePrefix),
		storage.WithMetrics(config.Metrics),
	)

	s := &Server{
		config:  config,
		factory: factory,
		store:   store,
		conns:   make(map[*Conn]struct{}),
		logger:  logger.With("component", "bridge"),
		metrics: config.Metrics,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.mux = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get(WebSocketPath, s.HandleWebSocket)
	r.Get(ClientScriptPath, serveClient)

	// Page paths are matched by the application's router, never here.
	r.Get("/*", s.servePage)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if _, fresh := clientID(r); fresh != "" {
		http.SetCookie(w, s.clientCookie(r, fresh))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := RenderPage(w, PageData{Title: s.config.Title}); err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

// clientID returns the browser id carried by r. When r has none, a new id
// is returned both as id and as fresh.
func clientID(r *http.Request) (id, fresh string) {
	if c, err := r.Cookie(ClientCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value, ""
		}
	}
	id = uuid.NewString()
	return id, id
}

func (s *Server) clientCookie(r *http.Request, id string) *http.Cookie {
	return &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.config.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// HandleWebSocket upgrades the request, builds the connection's application
// and serves the connection until it closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id, fresh := clientID(r)
	var header http.Header
	if fresh != "" {
		header = http.Header{}
		header.Add("Set-Cookie", s.clientCookie(r, fresh).String())
	}

	ws, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(id, ws, s.config.Conn, s.logger, s.metrics)
	app, err := s.factory(&Env{
		ID:       id,
		Context:  c.ctx,
		History:  c.history,
		Root:     c.root,
		Boundary: c.boundary,
		Storage:  s.store.Namespace(id + ":"),
		Logger:   c.logger,
		Metrics:  s.metrics,
		targets:  c.targets,
	})
	if err != nil {
		s.logger.Error("app factory failed", "error", err)
		if data, encErr := ErrorFrame("application unavailable").Encode(); encErr == nil {
			ws.WriteMessage(websocket.TextMessage, data)
		}
		ws.Close()
		c.cancel()
		return
	}
	c.app = app

	s.metrics.ConnOpened()
	s.track(c)
	defer s.untrack(c)

	c.logger.Debug("connection opened")
	c.run()
}

func (s *Server) track(c *Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// Conns returns the number of open connections.
func (s *Server) Conns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every connection and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	conns := make([]*Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
