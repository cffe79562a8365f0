package middleware

import (
	"context"

	"github.com/vango-dev/storefront/pkg/router"
)

// Titler is implemented by pages whose title depends on what they loaded,
// such as a product page.
type Titler interface {
	Title() string
}

// Titles sets the document title after each mount. A page implementing Titler
// names itself. Otherwise the route's entry in titles is used, and routes
// without one get the bare suffix.
func Titles(doc router.Document, suffix string, titles map[string]string) router.AfterHook {
	return router.AfterFunc(func(_ context.Context, nav *router.Context, page router.Page) {
		title := titles[nav.RouteName()]
		if t, ok := page.(Titler); ok && t.Title() != "" {
			title = t.Title()
		}
		switch {
		case title == "":
			doc.SetTitle(suffix)
		case suffix == "":
			doc.SetTitle(title)
		default:
			doc.SetTitle(title + " | " + suffix)
		}
	})
}
