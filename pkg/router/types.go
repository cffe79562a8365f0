package router

import (
	"context"
	"errors"
	"net/url"
)

// ErrUnknownForm is returned by Submitter.Submit for a form the page does not
// handle.
var ErrUnknownForm = errors.New("router: unknown form")

// Params are the decoded path parameters of a matched route.
type Params map[string]string

// Get returns the named parameter, or "" if absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Page is a route's unit of UI logic.
type Page interface {
	// Mount renders the page into target. It may block on backend calls and
	// should honor ctx, which is cancelled when the navigation is superseded.
	Mount(ctx context.Context, target Target, params Params) error

	// Unmount releases whatever Mount set up. It may be a no-op.
	Unmount()
}

// Submitter is implemented by pages that handle the forms they render. Hosts
// forward submissions to the mounted page.
type Submitter interface {
	Submit(ctx context.Context, form string, values url.Values) error
}

// PageFactory produces the page for a route. It is the lazy module load step
// and may block or fail.
type PageFactory func(ctx context.Context) (Page, error)

// Registry maps route names to page factories.
type Registry map[string]PageFactory

// Target is the container a page renders into.
type Target interface {
	// Render replaces the container's content.
	Render(html string)
}

// Document is the host page around the mount point.
type Document interface {
	Target

	// SetBodyAttr sets a data attribute on the document body.
	SetBodyAttr(name, value string)

	// SetTitle sets the document title.
	SetTitle(title string)

	// SetActiveNav marks the navigation tab of the named route as active.
	SetActiveNav(route string)
}

// Location is the platform's hash-fragment URL.
type Location interface {
	// Hash returns the current hash, including the leading "#".
	Hash() string

	// SetHash assigns the hash. Listeners are notified only when the value
	// actually changes.
	SetHash(hash string)

	// Subscribe registers fn for hash changes and returns a function that
	// removes it.
	Subscribe(fn func(hash string)) (unsubscribe func())
}

// Context is the navigation context passed through the hook pipeline.
type Context struct {
	// Seq is the navigation's sequence number.
	Seq uint64

	// Path is the normalized path without its query string.
	Path string

	// Route is the matched route.
	Route Route

	// Params are the decoded path parameters.
	Params Params

	// Query is the parsed query string of the hash.
	Query url.Values

	// Target is the mount point, scoped to this navigation.
	Target Target
}

// RouteName returns the matched route's name.
func (c *Context) RouteName() string {
	return c.Route.Name
}

type navigationKey struct{}

// FromContext returns the navigation context carried by ctx. Pages receive it
// through the ctx passed to Mount.
func FromContext(ctx context.Context) (*Context, bool) {
	nav, ok := ctx.Value(navigationKey{}).(*Context)
	return nav, ok
}

func withNavigation(ctx context.Context, nav *Context) context.Context {
	return context.WithValue(ctx, navigationKey{}, nav)
}
