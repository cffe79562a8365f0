package pages

import (
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/server"
)

// Nav lists the shell's tabs in display order.
var Nav = []server.NavLink{
	{Route: Home, Label: "Home", Path: "/home"},
	{Route: Products, Label: "Shop", Path: "/products"},
	{Route: TradeIn, Label: "Trade in", Path: "/trade-in"},
	{Route: Cart, Label: "Cart", Path: "/cart"},
	{Route: Orders, Label: "Orders", Path: "/orders"},
	{Route: Account, Label: "Account", Path: "/account"},
}

// App returns the storefront served by package server. Every session gets
// the loading indicator, the sign-in guard on Protected routes, document
// titles ending in siteName and page-view logging.
func App(env *Env, siteName string) server.App {
	table := Table()
	return server.App{
		Table: table,
		Pages: func(s *server.Session) router.Registry {
			return Registry(env, s)
		},
		Setup: func(s *server.Session, r *router.Router) {
			loading := middleware.NewLoading(s.Document())
			r.Before(loading, middleware.RequireAuth(s.Authenticated, LoginPath, Protected...))
			r.After(
				middleware.Titles(s.Document(), siteName, Titles),
				middleware.PageViews(s.Logger()),
			)
			r.Observe(loading)
		},
		Nav: Nav,
	}
}
