// Package bridge binds a navshell application to a real browser.
//
// The browser runs a thin JavaScript client that forwards its current path,
// in-app link clicks and back/forward navigation to the server over a
// WebSocket. The server answers with history pushes and markup for mount
// targets. Each connection gets its own application instance, built by an
// AppFactory, and a single event loop goroutine that handles that
// connection's events strictly in arrival order.
//
// # Wire Protocol
//
// Frames are JSON text messages with a "type" discriminator.
//
// Client to server:
//
//	{"type":"hello","path":"/users/7"}     initial location
//	{"type":"navigate","path":"/profile"}  in-app link click
//	{"type":"popstate","path":"/"}         back/forward
//	{"type":"event","target":"root","event":"submit",
//	 "selector":"#login-form","id":"login-form","values":{...}}
//	                                       delegated DOM event
//
// Server to client:
//
//	{"type":"push","path":"/profile"}             history.pushState
//	{"type":"replace","path":"/login"}            history.replaceState
//	{"type":"html","target":"root","html":"..."}  replace inner markup
//	{"type":"listen","target":"root",
//	 "event":"submit","selector":"#login-form"}   delegate DOM events
//	{"type":"error","message":"..."}              diagnostic
//
// # HTTP Surface
//
//	GET /_shell/ws         WebSocket endpoint
//	GET /_shell/client.js  thin client
//	GET /metrics           Prometheus metrics (when enabled)
//	GET /healthz           liveness
//	GET /*                 bootstrap page
package bridge
