// Package app is the demo application served by navshell.
//
// It registers a small set of pages, classifies them for the
// authenticated and anonymous menus, and keeps the signed-in user in the
// browser's storage under the "auth" key. Signing in is a submit of the
// login form, delivered as a delegated event; guards send the user on with
// history-replacing redirects.
package app
