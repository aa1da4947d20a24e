package bridge

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/navshell/pkg/component"
	"github.com/vango-dev/navshell/pkg/metrics"
	"github.com/vango-dev/navshell/pkg/router"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testApp struct {
	router *router.Router
	closed *atomic.Int32
}

func (a *testApp) Router() *router.Router { return a.router }

func (a *testApp) Close() {
	a.router.Close()
	a.closed.Add(1)
}

func testFactory(closed *atomic.Int32) AppFactory {
	return func(env *Env) (App, error) {
		r := router.NewRouter(
			router.WithHistory(env.History),
			router.WithLogger(env.Logger),
			router.WithMetrics(env.Metrics),
		)
		r.AddRoute("/", func(router.Params) {
			env.Root.SetInnerHTML("<h1>home</h1>")
		})
		r.AddRoute("/users/:id", func(p router.Params) {
			env.Root.SetInnerHTML("user " + p.Get("id"))
		})
		r.AddRoute("/boom", func(router.Params) {
			panic("kaboom")
		})
		r.AddRoute("/save/:v", func(p router.Params) {
			env.Storage.SetItem(env.Context, "v", p.Get("v"))
			env.Root.SetInnerHTML("saved")
		})
		r.AddRoute("/load", func(router.Params) {
			var v string
			env.Storage.GetItem(env.Context, "v", &v)
			env.Root.SetInnerHTML("loaded " + v)
		})
		r.AddRoute("/form", func(router.Params) {
			component.New(env.Target("panel"), nil,
				component.WithEvents(func(c *component.Component) {
					c.AddEvent("submit", "#greet", func(ev component.Event) {
						if ev.Value("name") == "boom" {
							panic("bad name")
						}
						env.Root.SetInnerHTML("hello " + ev.Value("name"))
					})
				}),
				component.WithTemplate(func(*component.Component) string {
					return `<form id="greet"><input name="name"></form>`
				}),
			)
		})
		r.SetError(router.NotFound, func() {
			env.Root.SetInnerHTML("not found")
		})
		return &testApp{router: r, closed: closed}, nil
	}
}

func newTestServer(t *testing.T, config *ServerConfig) (*Server, *httptest.Server, *atomic.Int32) {
	t.Helper()
	if config == nil {
		config = &ServerConfig{}
	}
	config.Logger = discardLogger()
	closed := &atomic.Int32{}
	srv := New(config, testFactory(closed))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts, closed
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) (*websocket.Conn, *http.Response) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WebSocketPath
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws, resp
}

func send(t *testing.T, ws *websocket.Conn, typ FrameType, path string) {
	t.Helper()
	if err := ws.WriteJSON(Frame{Type: typ, Path: path}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, ws *websocket.Conn) Frame {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := ws.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

func expectHTML(t *testing.T, ws *websocket.Conn, contains string) {
	t.Helper()
	f := read(t, ws)
	if f.Type != FrameHTML || f.Target != RootTarget || !strings.Contains(f.HTML, contains) {
		t.Fatalf("frame = %+v, want html containing %q", f, contains)
	}
}

func expectPush(t *testing.T, ws *websocket.Conn, path string) {
	t.Helper()
	f := read(t, ws)
	if f.Type != FramePush || f.Path != path {
		t.Fatalf("frame = %+v, want push %q", f, path)
	}
}

func TestNavigationOverWebSocket(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)
	ws, _ := dial(t, ts, nil)

	send(t, ws, FrameHello, "/users/7")
	expectHTML(t, ws, "user 7")

	send(t, ws, FrameNavigate, "/")
	expectPush(t, ws, "/")
	expectHTML(t, ws, "home")

	// Back goes to the previous page without a history push.
	send(t, ws, FramePopState, "/users/7")
	expectHTML(t, ws, "user 7")

	send(t, ws, FrameNavigate, "/nowhere")
	expectPush(t, ws, "/nowhere")
	expectHTML(t, ws, "not found")
}

func TestDelegatedEvents(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)
	ws, _ := dial(t, ts, nil)

	send(t, ws, FrameHello, "/form")
	if f := read(t, ws); f.Type != FrameListen || f.Target != "panel" || f.Event != "submit" || f.Selector != "#greet" {
		t.Fatalf("frame = %+v, want listen", f)
	}
	if f := read(t, ws); f.Type != FrameHTML || f.Target != "panel" {
		t.Fatalf("frame = %+v, want panel html", f)
	}

	submit := func(name string) {
		t.Helper()
		err := ws.WriteJSON(Frame{
			Type:     FrameEvent,
			Target:   "panel",
			Event:    "submit",
			Selector: "#greet",
			ID:       "greet",
			Values:   map[string]string{"name": name},
		})
		if err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	submit("ada")
	expectHTML(t, ws, "hello ada")

	// A panicking listener renders the error page and the connection lives on.
	submit("boom")
	expectHTML(t, ws, "bad name")

	// Events nobody listens for are dropped without a reply.
	if err := ws.WriteJSON(Frame{Type: FrameEvent, Target: "panel", Event: "click", Selector: "#greet"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ws.WriteJSON(Frame{Type: FrameEvent, Target: "nowhere", Event: "submit", Selector: "#greet"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	send(t, ws, FrameNavigate, "/")
	expectPush(t, ws, "/")
	expectHTML(t, ws, "home")
}

func TestHandlerPanicRendersErrorPage(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)
	ws, _ := dial(t, ts, nil)

	send(t, ws, FrameNavigate, "/boom")
	expectPush(t, ws, "/boom")
	expectHTML(t, ws, "kaboom")

	// The connection keeps working after the fault.
	send(t, ws, FrameNavigate, "/")
	expectPush(t, ws, "/")
	expectHTML(t, ws, "home")
}

func TestInvalidFrameIsReported(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)
	ws, _ := dial(t, ts, nil)

	ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"reload"}`))
	f := read(t, ws)
	if f.Type != FrameError || !strings.Contains(f.Message, "N020") {
		t.Fatalf("frame = %+v, want N020 error", f)
	}

	send(t, ws, FrameHello, "/")
	expectHTML(t, ws, "home")
}

func TestStorageIsScopedToBrowser(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)

	ws, resp := dial(t, ts, nil)
	var id string
	for _, c := range resp.Cookies() {
		if c.Name == ClientCookie {
			id = c.Value
		}
	}
	if id == "" {
		t.Fatal("handshake did not set the client cookie")
	}

	send(t, ws, FrameNavigate, "/save/42")
	expectPush(t, ws, "/save/42")
	expectHTML(t, ws, "saved")
	ws.Close()

	// Same browser, new connection.
	again, _ := dial(t, ts, http.Header{"Cookie": {ClientCookie + "=" + id}})
	send(t, again, FrameHello, "/load")
	expectHTML(t, again, "loaded 42")

	// Another browser sees nothing.
	other, _ := dial(t, ts, nil)
	send(t, other, FrameHello, "/load")
	f := read(t, other)
	if f.HTML != "loaded " {
		t.Errorf("other browser html = %q", f.HTML)
	}
}

func TestCrossOriginRejected(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WebSocketPath
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.test"}})
	if err == nil {
		t.Fatal("cross-origin dial should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v", resp)
	}
}

func TestAllowedOrigin(t *testing.T) {
	_, ts, _ := newTestServer(t, &ServerConfig{AllowedOrigins: []string{"https://app.test"}})
	ws, _ := dial(t, ts, http.Header{"Origin": {"https://app.test"}})

	send(t, ws, FrameHello, "/")
	expectHTML(t, ws, "home")
}

func TestBootstrapPage(t *testing.T) {
	_, ts, _ := newTestServer(t, &ServerConfig{Title: "Shell <demo>"})

	resp, err := http.Get(ts.URL + "/users/7")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`<div id="root"></div>`,
		`<script src="/_shell/client.js" defer></script>`,
		`<title>Shell &lt;demo&gt;</title>`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q:\n%s", want, body)
		}
	}

	found := false
	for _, c := range resp.Cookies() {
		found = found || c.Name == ClientCookie
	}
	if !found {
		t.Error("page did not set the client cookie")
	}
}

func TestClientScript(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + ClientScriptPath)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+ClientScriptPath, nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	_, ts, _ := newTestServer(t, &ServerConfig{Metrics: m, Gatherer: reg})

	ws, _ := dial(t, ts, nil)
	send(t, ws, FrameHello, "/")
	expectHTML(t, ws, "home")

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{"navshell_active_connections 1", "navshell_dispatches_total"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestShutdownClosesConnections(t *testing.T) {
	srv, ts, closed := newTestServer(t, nil)
	ws, _ := dial(t, ts, nil)

	send(t, ws, FrameHello, "/")
	expectHTML(t, ws, "home")
	if srv.Conns() != 1 {
		t.Fatalf("Conns() = %d, want 1", srv.Conns())
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for (srv.Conns() != 0 || closed.Load() != 1) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Conns() != 0 {
		t.Errorf("Conns() = %d after shutdown", srv.Conns())
	}
	if closed.Load() != 1 {
		t.Errorf("app closed %d times, want 1", closed.Load())
	}
}
