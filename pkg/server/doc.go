// Package server serves a hash-routed storefront over websockets.
//
// Each browser tab opens one websocket and becomes a Session. The session
// owns a router.Router, a location that mirrors the browser's hash and a
// dom.Document. Pages render into the document and every mutation is sent to
// the browser as a JSON Op:
//
//	browser                          server
//	{"type":"hello","hash":"#/cart"} ─▶ session starts, router mounts cart
//	                                 ◀─ {"op":"render","value":"<section>…"}
//	                                 ◀─ {"op":"attr","name":"data-route","value":"cart"}
//	                                 ◀─ {"op":"nav","value":"cart"}
//	{"type":"submit","form":"remove","fields":{"id":"pixel-9"}}
//	                                 ◀─ {"op":"toast","level":"success","value":"Removed from cart"}
//
// What a server serves is described by an App: the route table, the pages
// each session gets and the hooks installed on each session's router.
//
//	srv, err := server.New(server.DefaultServerConfig(), app,
//		server.WithLogger(logger),
//		server.WithMetrics(metrics, registry),
//	)
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx)
//
// Handler also serves the document shell, the embedded client, fingerprinted
// static files, health and metrics endpoints and route introspection under
// /api.
package server
