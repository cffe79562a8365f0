// Package router implements the storefront's hash router and page lifecycle.
//
// The router provides:
//   - An ordered route table with ":param" and "*catchall" segments
//   - Before/after navigation hooks for cross-cutting behavior
//   - Lazy page loading through a static route name → factory registry
//   - Mount/unmount sequencing so at most one page is live at a time
//   - Last-navigation-wins supersession of in-flight navigations
//
// # Route Table
//
//	table := router.NewTable("notfound",
//	    router.NewRoute("home", "/home"),
//	    router.NewRoute("product", "/product/:id"),
//	    router.NewRoute("order", "/orders/:id"),
//	)
//
//	m := table.Match("/product/abc%20123")
//	// m.Route.Name == "product", m.Params["id"] == "abc 123"
//
// Matching is total: a path no route accepts resolves to the NotFound route.
//
// # Navigation
//
// A Router owns one Document (the mount point plus body side effects) and one
// Location (the hash fragment). Start subscribes to hash changes. NavigateTo is
// the only writer of the location:
//
//	r, err := router.New(table, registry, loc, doc, router.WithLogger(logger))
//	r.Before(router.BeforeFunc(requireLogin))
//	r.After(router.AfterFunc(trackPageView))
//	err = r.Start(ctx)
//	err = r.NavigateTo(ctx, "/cart")
//
// Each navigation normalizes the path and matches a route. It then runs the
// before-hooks and unmounts the current page. The target page is loaded and
// mounted, and the after-hooks run. A hook may abort the navigation or
// redirect it elsewhere. A hook that fails, or a page that fails to load or
// mount, sends the user to the NotFound page.
//
// # Concurrency
//
// Navigations may overlap. The newest one wins. Older navigations notice they
// have been superseded and discard their work without mounting anything or
// running after-hooks. The context handed to a page's factory and Mount is
// cancelled once the page is superseded or unmounted.
package router
