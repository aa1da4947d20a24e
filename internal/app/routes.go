package app

import "github.com/vango-dev/navshell/pkg/router"

// Route keys of the menu registry.
const (
	KeyHome    = "home"
	KeyProfile = "profile"
	KeyLogin   = "login"
	KeyUsers   = "users"
)

// Registry lists the menu routes in display order.
var Registry = router.Registry{
	{Key: KeyHome, Route: router.Descriptor{Path: "/", Name: "Home"}},
	{Key: KeyProfile, Route: router.Descriptor{Path: "/profile", Name: "Profile"}},
	{Key: KeyLogin, Route: router.Descriptor{Path: "/login", Name: "Login"}},
	{Key: KeyUsers, Route: router.Descriptor{Path: "/users", Name: "Users"}},
}

// Auths classifies the registry keys for the menu.
var Auths = router.Auths{
	Always:           []string{KeyHome, KeyUsers},
	Authenticated:    []string{KeyProfile},
	NotAuthenticated: []string{KeyLogin},
}

// User is a member of the demo directory.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Users is the demo directory.
var Users = []User{
	{ID: "ada", Name: "Ada Lovelace", Role: "analyst"},
	{ID: "grace", Name: "Grace Hopper", Role: "admiral"},
	{ID: "alan", Name: "Alan Turing", Role: "cryptanalyst"},
	{ID: "edsger-d", Name: "Edsger Dijkstra", Role: "professor"},
}

// FindUser looks a user up by id.
func FindUser(id string) (User, bool) {
	for _, u := range Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
