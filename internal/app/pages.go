package app

import (
	"strings"

	"github.com/vango-dev/navshell/pkg/component"
	"github.com/vango-dev/navshell/pkg/router"
)

// menu renders the navigation bar. isActive marks the current entry.
func menu(routes []router.Descriptor, isActive func(path string) bool) string {
	var b strings.Builder
	b.WriteString(`<nav class="menu">`)
	for _, r := range routes {
		b.WriteString(`<a href="`)
		b.WriteString(component.EscapeAttr(r.Path))
		b.WriteString(`"`)
		if isActive(r.Path) {
			b.WriteString(` class="active"`)
		}
		b.WriteString(` data-link>`)
		b.WriteString(component.Escape(r.Name))
		b.WriteString(`</a>`)
	}
	b.WriteString(`</nav>`)
	return b.String()
}

func homePage(s *Session) string {
	greeting := "Welcome, guest."
	if s != nil {
		greeting = "Welcome back, " + component.Escape(s.User) + "."
	}
	return `<h1>navshell</h1><p>` + greeting + `</p>`
}

func loginPage(notice string) string {
	var b strings.Builder
	b.WriteString(`<h1>Login</h1>`)
	if notice != "" {
		b.WriteString(`<p class="notice">`)
		b.WriteString(component.Escape(notice))
		b.WriteString(`</p>`)
	}
	b.WriteString(`<form id="login-form"><label>Sign in as: <select name="user">`)
	for _, u := range Users {
		b.WriteString(`<option value="`)
		b.WriteString(component.EscapeAttr(u.ID))
		b.WriteString(`">`)
		b.WriteString(component.Escape(u.Name))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select></label><button type="submit">Sign in</button></form>`)
	return b.String()
}

func profilePage(s *Session) string {
	u, _ := FindUser(s.User)
	return `<h1>Profile</h1>` +
		`<dl><dt>User</dt><dd>` + component.Escape(s.User) + `</dd>` +
		`<dt>Name</dt><dd>` + component.Escape(u.Name) + `</dd></dl>` +
		`<a href="/logout" data-link>Log out</a>`
}

func usersPage() string {
	var b strings.Builder
	b.WriteString(`<h1>Users</h1><ul class="users">`)
	for _, u := range Users {
		b.WriteString(`<li><a href="/users/`)
		b.WriteString(component.EscapeAttr(u.ID))
		b.WriteString(`" data-link>`)
		b.WriteString(component.Escape(u.Name))
		b.WriteString(`</a></li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func userPage(u User) string {
	return `<h1>` + component.Escape(u.Name) + `</h1>` +
		`<p class="role">` + component.Escape(u.Role) + `</p>` +
		`<a href="/users" data-link>All users</a>`
}

func notFoundPage(path string) string {
	return `<h1>404</h1><p>No page at <code>` + component.Escape(path) + `</code>.</p>` +
		`<a href="/" data-link>Back to home</a>`
}
