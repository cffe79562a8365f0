package middleware

import (
	"context"
	"sync"

	"github.com/vango-dev/storefront/pkg/router"
)

// LoadingAttr is the body data attribute set while a navigation is pending.
const LoadingAttr = "data-loading"

// Loading shows a loading indicator while navigations are in flight.
// Register it as both a before-hook and an observer:
//
//	l := middleware.NewLoading(doc)
//	r.Before(l)
//	router.New(table, pages, loc, doc, router.WithObserver(l))
type Loading struct {
	doc router.Document

	mu      sync.Mutex
	pending map[uint64]struct{}
}

// NewLoading creates a loading indicator for doc.
func NewLoading(doc router.Document) *Loading {
	return &Loading{doc: doc, pending: make(map[uint64]struct{})}
}

// Before implements router.BeforeHook.
func (l *Loading) Before(_ context.Context, nav *router.Context) (router.Verdict, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		l.doc.SetBodyAttr(LoadingAttr, "true")
	}
	l.pending[nav.Seq] = struct{}{}
	return router.Continue(), nil
}

// ObserveNavigation implements router.Observer.
func (l *Loading) ObserveNavigation(ev router.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[ev.Seq]; !ok {
		return
	}
	delete(l.pending, ev.Seq)
	if len(l.pending) == 0 {
		l.doc.SetBodyAttr(LoadingAttr, "")
	}
}

// Pending returns the number of navigations in flight.
func (l *Loading) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
