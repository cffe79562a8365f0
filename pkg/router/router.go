package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	serrors "github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/routepath"
)

// DefaultMaxRedirects bounds consecutive before-hook redirects.
const DefaultMaxRedirects = 8

// BodyRouteAttr is the body data attribute stamped with the current route name.
const BodyRouteAttr = "data-route"

// ErrAlreadyStarted is returned by Start on a router that is already listening.
var ErrAlreadyStarted = errors.New("router: already started")

// Router resolves hash paths to pages and manages their lifecycle.
// A Router is safe for concurrent use. Create one per document.
type Router struct {
	table        *Table
	pages        Registry
	loc          Location
	doc          Document
	logger       *slog.Logger
	maxRedirects int

	mu          sync.Mutex
	before      []BeforeHook
	after       []AfterHook
	observers   []Observer
	seq         uint64
	inflight    *flight
	current     Page
	currentNav  *Context
	pageCancel  context.CancelFunc
	state       State
	desired     string
	redirects   int
	unsubscribe func()
}

// flight is the latest navigation that has not committed a page yet.
type flight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxRedirects sets how many consecutive redirects are allowed before the
// navigation is treated as failed.
func WithMaxRedirects(n int) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxRedirects = n
		}
	}
}

// WithObserver adds navigation observers.
func WithObserver(obs ...Observer) Option {
	return func(r *Router) {
		r.observers = append(r.observers, obs...)
	}
}

// New creates a router. Every route in table, NotFound included, must have a
// factory in pages.
func New(table *Table, pages Registry, loc Location, doc Document, opts ...Option) (*Router, error) {
	if table == nil || loc == nil || doc == nil {
		return nil, serrors.Newf(serrors.CategoryRouting, "router: table, location and document are required")
	}

	var missing []string
	for _, rt := range append(table.Routes(), table.NotFound()) {
		if pages[rt.Name] == nil {
			missing = append(missing, rt.Name)
		}
	}
	if len(missing) > 0 {
		return nil, serrors.New("E201").
			WithDetail("no page factory for route(s): " + strings.Join(missing, ", "))
	}

	r := &Router{
		table:        table,
		pages:        pages,
		loc:          loc,
		doc:          doc,
		logger:       slog.Default().With("component", "router"),
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Before registers before-navigation hooks. Hooks run in registration order.
func (r *Router) Before(hooks ...BeforeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.before = append(r.before, hooks...)
}

// After registers after-navigation hooks. Hooks run in registration order.
func (r *Router) After(hooks ...AfterHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.after = append(r.after, hooks...)
}

// Observe registers navigation observers after construction.
func (r *Router) Observe(obs ...Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, obs...)
}

// Table returns the router's route table.
func (r *Router) Table() *Table {
	return r.table
}

// Start subscribes to location changes and performs the first navigation.
// A location with no route in its hash is sent to routepath.DefaultPath.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.unsubscribe = r.loc.Subscribe(func(string) {
		if _, err := r.Navigate(ctx, ""); err != nil {
			r.logger.Error("hash change navigation failed", "error", err)
		}
	})
	r.mu.Unlock()

	if routepath.IsRoot(r.loc.Hash()) {
		return r.NavigateTo(ctx, routepath.DefaultPath)
	}
	_, err := r.Navigate(ctx, "")
	return err
}

// Stop unsubscribes from the location, abandons any in-flight navigation and
// unmounts the current page.
func (r *Router) Stop() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.seq++
	if r.inflight != nil {
		r.inflight.cancel()
		r.inflight = nil
	}
	page, nav, cancel := r.current, r.currentNav, r.pageCancel
	r.current, r.currentNav, r.pageCancel = nil, nil, nil
	r.state = StateIdle
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	if page != nil {
		r.unmount(page, nav.Route.Name)
	}
}

// NavigateTo sends the user to path. The router is the only writer of the
// location. When the location already shows path, assigning it again would not
// notify anyone, so the router navigates directly. Otherwise it assigns the hash
// and the change listener drives the navigation.
func (r *Router) NavigateTo(ctx context.Context, path string) error {
	target := routepath.Normalize(path)
	hash := "#" + target

	r.mu.Lock()
	r.desired = target
	r.mu.Unlock()

	if r.loc.Hash() == hash {
		_, err := r.Navigate(ctx, target)
		return err
	}
	r.loc.SetHash(hash)
	return nil
}

// Navigate resolves path, or the current location when path is empty, and
// swaps the mounted page. The returned error is non-nil only when the NotFound
// fallback itself failed, or when a redirect target did.
//
// The location is read after the navigation claims its sequence number, so
// the latest navigation always sees a hash at least as new as any it
// superseded.
func (r *Router) Navigate(ctx context.Context, path string) (Outcome, error) {
	start := time.Now()
	navCtx, seq := r.begin(ctx)
	if path == "" {
		path = r.loc.Hash()
	}
	res := routepath.Canonicalize(path)
	query, _ := url.ParseQuery(res.Query)

	r.mu.Lock()
	if seq == r.seq {
		r.desired = res.String()
	}
	r.mu.Unlock()

	return r.runClaimed(ctx, navCtx, seq, start, res.Path, query, r.table.Match(res.Path))
}

// run executes one navigation and falls back to NotFound on failure.
func (r *Router) run(parent context.Context, path string, query url.Values, m Match) (Outcome, error) {
	start := time.Now()
	ctx, seq := r.begin(parent)
	return r.runClaimed(parent, ctx, seq, start, path, query, m)
}

// runClaimed is run for a navigation that already holds seq.
func (r *Router) runClaimed(parent, ctx context.Context, seq uint64, start time.Time, path string, query url.Values, m Match) (Outcome, error) {
	nav := &Context{
		Seq:    seq,
		Path:   path,
		Route:  m.Route,
		Params: m.Params,
		Query:  query,
		Target: &scopedTarget{r: r, seq: seq},
	}
	ctx = withNavigation(ctx, nav)

	outcome, err := r.pipeline(parent, ctx, nav)
	r.finish(seq, outcome)
	r.observe(Event{
		Seq:      seq,
		Path:     path,
		Query:    query.Encode(),
		Route:    m.Route.Name,
		Outcome:  outcome,
		Err:      err,
		Start:    start,
		Duration: time.Since(start),
	})

	if outcome != OutcomeFailed {
		return outcome, err
	}
	if r.table.IsNotFound(m) {
		err = serrors.New("E206").WithDetail(fmt.Sprintf("path %q", path)).Wrap(err)
		r.logger.Error("notfound page failed", "path", path, "seq", seq, "error", err)
		return OutcomeFailed, err
	}
	r.logger.Error("navigation failed", "path", path, "route", m.Route.Name, "seq", seq, "error", err)
	if parent.Err() != nil || !r.isLatest(seq) {
		return OutcomeSuperseded, nil
	}
	return r.run(parent, path, query, Match{Route: r.table.NotFound(), Params: Params{}})
}

// pipeline runs hooks, unmount, load, mount and bookkeeping for nav.
func (r *Router) pipeline(parent, ctx context.Context, nav *Context) (Outcome, error) {
	verdict, err := runBefore(ctx, r.beforeHooks(), nav)
	if !r.isLatest(nav.Seq) {
		return OutcomeSuperseded, nil
	}
	if err != nil {
		return OutcomeFailed, serrors.New("E204").
			WithDetail(fmt.Sprintf("route %q", nav.Route.Name)).
			Wrap(err)
	}
	switch {
	case verdict.IsAbort():
		r.logger.Debug("navigation aborted", "path", nav.Path, "seq", nav.Seq)
		return OutcomeAborted, nil
	case verdict.IsRedirect():
		if !r.allowRedirect() {
			return OutcomeFailed, serrors.New("E205").
				WithDetail(fmt.Sprintf("%q redirected to %q", nav.Path, verdict.Path()))
		}
		r.logger.Debug("navigation redirected", "from", nav.Path, "to", verdict.Path(), "seq", nav.Seq)
		return OutcomeRedirected, r.NavigateTo(parent, verdict.Path())
	}

	old, oldNav, cancelOld, ok := r.detach(nav.Seq)
	if !ok {
		return OutcomeSuperseded, nil
	}
	if cancelOld != nil {
		cancelOld()
	}
	if old != nil {
		r.unmount(old, oldNav.Route.Name)
	}
	nav.Target.Render("")

	factory := r.pages[nav.Route.Name]
	var page Page
	err = protect(func() error {
		var err error
		page, err = factory(ctx)
		if err == nil && page == nil {
			err = errors.New("factory returned no page")
		}
		return err
	})
	if !r.isLatest(nav.Seq) {
		return OutcomeSuperseded, nil
	}
	if err != nil {
		return OutcomeFailed, serrors.New("E202").
			WithDetail(fmt.Sprintf("route %q", nav.Route.Name)).
			Wrap(err)
	}

	err = protect(func() error {
		return page.Mount(ctx, nav.Target, nav.Params)
	})
	if err != nil {
		if !r.isLatest(nav.Seq) {
			return OutcomeSuperseded, nil
		}
		return OutcomeFailed, serrors.New("E203").
			WithDetail(fmt.Sprintf("route %q", nav.Route.Name)).
			Wrap(err)
	}
	if !r.commit(nav, page) {
		r.unmount(page, nav.Route.Name)
		return OutcomeSuperseded, nil
	}

	for i, h := range r.afterHooks() {
		if !r.isLatest(nav.Seq) {
			return OutcomeMounted, nil
		}
		if err := protect(func() error {
			h.After(ctx, nav, page)
			return nil
		}); err != nil {
			r.logger.Error("after hook failed", "hook", i, "route", nav.Route.Name, "error", err)
		}
	}
	r.bookkeep(nav)

	r.logger.Debug("page mounted", "route", nav.Route.Name, "path", nav.Path, "seq", nav.Seq)
	return OutcomeMounted, nil
}

// begin claims a new sequence number and cancels the previous in-flight
// navigation. A committed page keeps its context until it is unmounted.
func (r *Router) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if r.inflight != nil {
		r.inflight.cancel()
	}
	r.inflight = &flight{seq: r.seq, cancel: cancel}
	r.state = StateResolving
	return ctx, r.seq
}

// detach takes the current page away for unmounting, unless seq is stale.
func (r *Router) detach(seq uint64) (Page, *Context, context.CancelFunc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		return nil, nil, nil, false
	}
	page, nav, cancel := r.current, r.currentNav, r.pageCancel
	r.current, r.currentNav, r.pageCancel = nil, nil, nil
	r.state = StateLoading
	return page, nav, cancel, true
}

// commit installs page as current if nav is still the latest navigation.
func (r *Router) commit(nav *Context, page Page) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nav.Seq != r.seq {
		return false
	}
	r.current, r.currentNav = page, nav
	if r.inflight != nil && r.inflight.seq == nav.Seq {
		r.pageCancel = r.inflight.cancel
		r.inflight = nil
	}
	r.state = StateMounted
	return true
}

// finish releases an uncommitted navigation and settles the state.
func (r *Router) finish(seq uint64, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight != nil && r.inflight.seq == seq {
		r.inflight.cancel()
		r.inflight = nil
	}
	if seq != r.seq {
		return
	}
	switch outcome {
	case OutcomeMounted:
		r.state = StateMounted
		r.redirects = 0
	case OutcomeAborted:
		r.state = StateIdle
		r.redirects = 0
	default:
		r.state = StateIdle
	}
}

// bookkeep stamps the document for the mounted route.
func (r *Router) bookkeep(nav *Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nav.Seq != r.seq {
		return
	}
	r.doc.SetBodyAttr(BodyRouteAttr, nav.Route.Name)
	r.doc.SetActiveNav(nav.Route.Name)
}

func (r *Router) allowRedirect() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects++
	return r.redirects <= r.maxRedirects
}

func (r *Router) unmount(page Page, route string) {
	if err := protect(func() error {
		page.Unmount()
		return nil
	}); err != nil {
		r.logger.Error("page unmount failed", "route", route, "error", err)
	}
}

func (r *Router) observe(ev Event) {
	r.mu.Lock()
	observers := append([]Observer(nil), r.observers...)
	r.mu.Unlock()
	for _, o := range observers {
		if err := protect(func() error {
			o.ObserveNavigation(ev)
			return nil
		}); err != nil {
			r.logger.Error("navigation observer failed", "error", err)
		}
	}
}

func (r *Router) isLatest(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq == r.seq
}

func (r *Router) beforeHooks() []BeforeHook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]BeforeHook(nil), r.before...)
}

func (r *Router) afterHooks() []AfterHook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AfterHook(nil), r.after...)
}

// Current returns the mounted page, or nil.
func (r *Router) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// CurrentRoute returns the navigation context of the mounted page.
func (r *Router) CurrentRoute() (*Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentNav, r.currentNav != nil
}

// State returns the router's navigation state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// DesiredPath returns the normalized path the router was last asked to show.
func (r *Router) DesiredPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.desired
}

// scopedTarget forwards renders to the document only while its navigation is
// the latest one or its page is the mounted one.
type scopedTarget struct {
	r   *Router
	seq uint64
}

func (t *scopedTarget) Render(html string) {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	live := t.seq == t.r.seq || (t.r.currentNav != nil && t.r.currentNav.Seq == t.seq)
	if !live {
		return
	}
	t.r.doc.Render(html)
}
