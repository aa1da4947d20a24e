package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/navshell/pkg/bridge"
	"github.com/vango-dev/navshell/pkg/component"
	"github.com/vango-dev/navshell/pkg/router"
	"github.com/vango-dev/navshell/pkg/storage"
)

// AuthKey is the storage key holding the signed-in Session.
const AuthKey = "auth"

// Session is the value stored under AuthKey.
type Session struct {
	User string `json:"user"`
}

// App is one instance of the demo application, bound to one browser.
type App struct {
	env    *bridge.Env
	ctx    context.Context
	router *router.Router
	shell  *component.Component
	logger *slog.Logger
}

// New builds the application on env's history, root target and storage.
func New(env *bridge.Env) (*App, error) {
	if env == nil || env.History == nil || env.Root == nil || env.Storage == nil {
		return nil, fmt.Errorf("app: environment needs history, root and storage")
	}

	ctx := env.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		env:    env,
		ctx:    ctx,
		logger: logger.With("component", "app"),
	}
	a.router = router.NewRouter(
		router.WithHistory(env.History),
		router.WithRegistry(Registry),
		router.WithLogger(logger.With("component", "router")),
		router.WithMetrics(env.Metrics),
		router.WithContext(ctx),
	)
	a.router.AddAuths(Auths.Always, Auths.Authenticated, Auths.NotAuthenticated)
	a.routes()

	a.shell = component.New(env.Root, nil,
		component.WithState(component.State{"page": ""}),
		component.WithEvents(a.events),
		component.WithTemplate(a.template),
	)
	return a, nil
}

// Factory returns an AppFactory building one App per connection.
func Factory() bridge.AppFactory {
	return func(env *bridge.Env) (bridge.App, error) {
		a, err := New(env)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

// Offline builds an instance with no browser attached, for inspection.
func Offline() (*App, error) {
	return New(&bridge.Env{
		ID:      "offline",
		History: bridge.NewRemoteHistory("/", nil),
		Root:    bridge.NewRemoteTarget(bridge.RootTarget, nil),
		Storage: storage.NewLocalStorage(storage.NewMemoryBackend()),
	})
}

// Router returns the application's router.
func (a *App) Router() *router.Router {
	return a.router
}

// Close releases the router's history subscription.
func (a *App) Close() {
	a.router.Close()
}

func (a *App) routes() {
	r := a.router

	r.AddRoute("/", func(router.Params) {
		a.show(homePage(a.Session()))
	})

	r.AddRoute("/login", func(router.Params) {
		if a.Session() != nil {
			r.Redirect("/profile")
			return
		}
		a.show(loginPage(""))
	})

	r.AddRoute("/logout", func(router.Params) {
		if err := a.SignOut(); err != nil {
			a.fail(err)
			return
		}
		r.NavigateTo("/")
	})

	r.AddRoute("/profile", func(router.Params) {
		s := a.Session()
		if s == nil {
			r.Redirect("/login")
			return
		}
		a.show(profilePage(s))
	})

	r.AddRoute("/users", func(router.Params) {
		a.show(usersPage())
	})

	r.AddRoute("/users/:id", func(p router.Params) {
		u, ok := FindUser(p.Get("id"))
		if !ok {
			a.notFound()
			return
		}
		a.show(userPage(u))
	})

	r.SetError(router.NotFound, a.notFound)
}

// LoginForm is the selector of the sign-in form.
const LoginForm = "#login-form"

func (a *App) events(c *component.Component) {
	c.AddEvent("submit", LoginForm, a.onLogin)
}

// onLogin signs in the user picked in the login form and shows the profile.
func (a *App) onLogin(ev component.Event) {
	u, ok := FindUser(ev.Value("user"))
	if !ok {
		a.show(loginPage("Unknown user."))
		return
	}
	if err := a.SignIn(u.ID); err != nil {
		a.fail(err)
		return
	}
	a.router.NavigateTo("/profile")
}

// Session returns the signed-in session, or nil for a guest. Unreadable
// auth state counts as signed out.
func (a *App) Session() *Session {
	s, found, err := storage.Get[Session](a.ctx, a.env.Storage, AuthKey)
	if err != nil {
		a.logger.Warn("auth state unreadable", "error", err)
		return nil
	}
	if !found || s.User == "" {
		return nil
	}
	return &s
}

// SignIn stores a session for user.
func (a *App) SignIn(user string) error {
	return a.env.Storage.SetItem(a.ctx, AuthKey, Session{User: user})
}

// SignOut removes the stored session.
func (a *App) SignOut() error {
	return a.env.Storage.RemoveItem(a.ctx, AuthKey)
}

func (a *App) show(page string) {
	a.shell.SetState(component.State{"page": page})
}

func (a *App) notFound() {
	a.show(notFoundPage(a.router.CurrentPath()))
}

func (a *App) fail(err error) {
	if a.env.Boundary != nil {
		a.env.Boundary.HandleError(err)
		return
	}
	a.logger.Error("handler failed", "error", err)
}

func (a *App) template(c *component.Component) string {
	page, _ := c.Get("page").(string)
	routes := a.router.FilterRoutesByAuth(a.Session() != nil)
	return `<header>` + menu(routes, a.router.IsLocated) + `</header>` +
		`<main>` + page + `</main>`
}
