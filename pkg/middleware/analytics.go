package middleware

import (
	"context"
	"log/slog"
	"sort"

	"github.com/vango-dev/storefront/pkg/router"
)

// PageViews logs one structured "page view" record per mounted page.
// Query values are not logged, only their keys.
func PageViews(logger *slog.Logger) router.AfterHook {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "analytics")
	return router.AfterFunc(func(ctx context.Context, nav *router.Context, _ router.Page) {
		keys := make([]string, 0, len(nav.Query))
		for k := range nav.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.InfoContext(ctx, "page view",
			"route", nav.RouteName(),
			"path", nav.Path,
			"seq", nav.Seq,
			"query_keys", keys,
		)
	})
}
