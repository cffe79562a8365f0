package middleware

import (
	"context"
	"net/url"

	"github.com/vango-dev/storefront/pkg/router"
)

// RequireAuth redirects anonymous users away from the named routes to
// loginPath, carrying the requested path in the "next" query parameter.
// authenticated is consulted on every guarded navigation.
func RequireAuth(authenticated func(ctx context.Context) bool, loginPath string, routes ...string) router.BeforeHook {
	guarded := make(map[string]bool, len(routes))
	for _, r := range routes {
		guarded[r] = true
	}
	return router.BeforeFunc(func(ctx context.Context, nav *router.Context) (router.Verdict, error) {
		if !guarded[nav.RouteName()] || authenticated(ctx) {
			return router.Continue(), nil
		}
		next := nav.Path
		if len(nav.Query) > 0 {
			next += "?" + nav.Query.Encode()
		}
		return router.Redirect(loginPath + "?next=" + url.QueryEscape(next)), nil
	})
}
