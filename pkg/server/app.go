package server

import "github.com/vango-dev/storefront/pkg/router"

// App is what a server serves: a route table, the pages behind it and the
// navigation hooks each session's router gets.
type App struct {
	// Table is the route table shared by every session.
	Table *router.Table

	// Pages builds a session's page registry.
	Pages func(s *Session) router.Registry

	// Setup installs hooks and observers on a new session's router before
	// its first navigation. It may be nil.
	Setup func(s *Session, r *router.Router)

	// Nav lists the shell's navigation tabs.
	Nav []NavLink
}

// NavLink is a navigation tab in the shell. Route is the route name the
// router marks active.
type NavLink struct {
	Route string
	Label string
	Path  string
}

// Href returns the tab's hash link.
func (l NavLink) Href() string {
	return "#" + l.Path
}
