// Package middleware provides cross-cutting navigation hooks and observers for
// the storefront router.
//
// Observers see every finished navigation:
//   - Metrics records Prometheus counters and histograms per route and outcome
//   - Tracer turns navigations into OpenTelemetry spans
//
// Hooks run inside the navigation pipeline:
//   - Loading toggles a body data-loading attribute while navigations are in flight
//   - Titles sets the document title after a page mounts
//   - RequireAuth redirects anonymous users away from account pages
//   - PageViews logs a structured page-view record
//
// A session wires them like this:
//
//	loading := middleware.NewLoading(doc)
//	r, err := router.New(table, pages, loc, doc,
//	    router.WithObserver(metrics, tracer, loading),
//	)
//	r.Before(loading, middleware.RequireAuth(signedIn, "/login", "account", "orders", "order"))
//	r.After(middleware.Titles(doc, "Storefront", titles), middleware.PageViews(logger))
//
// Metrics are exposed by the server on /metrics through promhttp.
package middleware
