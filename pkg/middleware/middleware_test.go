package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/vango-dev/storefront/pkg/dom"
	"github.com/vango-dev/storefront/pkg/location"
	"github.com/vango-dev/storefront/pkg/router"
)

type stubPage struct{ title string }

func (p *stubPage) Mount(_ context.Context, target router.Target, _ router.Params) error {
	target.Render("<main></main>")
	return nil
}

func (p *stubPage) Unmount() {}

func (p *stubPage) Title() string { return p.title }

func newTestRouter(t *testing.T, hash string, doc *dom.Document, opts ...router.Option) (*router.Router, *dom.Document, *location.Memory) {
	t.Helper()
	table := router.NewTable("notfound",
		router.NewRoute("home", "/home"),
		router.NewRoute("product", "/product/:id"),
		router.NewRoute("account", "/account"),
		router.NewRoute("login", "/login"),
	)
	pages := router.Registry{}
	for _, rt := range append(table.Routes(), table.NotFound()) {
		pages[rt.Name] = func(context.Context) (router.Page, error) { return &stubPage{}, nil }
	}
	pages["product"] = func(context.Context) (router.Page, error) {
		return &stubPage{title: "Pixel 9"}, nil
	}

	if doc == nil {
		doc = dom.New(nil)
	}
	loc := location.NewMemory(hash)
	r, err := router.New(table, pages, loc, doc, opts...)
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	return r, doc, loc
}

func TestLoading(t *testing.T) {
	var attrs []string
	doc := dom.New(func(op dom.Op) {
		if op.Kind == dom.OpAttr && op.Name == LoadingAttr {
			attrs = append(attrs, op.Value)
		}
	})
	l := NewLoading(doc)
	ctx := context.Background()

	l.Before(ctx, &router.Context{Seq: 1})
	l.Before(ctx, &router.Context{Seq: 2})
	if doc.BodyAttr(LoadingAttr) != "true" {
		t.Fatal("loading attribute not set")
	}
	l.ObserveNavigation(router.Event{Seq: 1, Outcome: router.OutcomeSuperseded})
	if doc.BodyAttr(LoadingAttr) != "true" {
		t.Error("loading attribute cleared while a navigation is still pending")
	}
	l.ObserveNavigation(router.Event{Seq: 2, Outcome: router.OutcomeMounted})
	if doc.BodyAttr(LoadingAttr) != "" {
		t.Error("loading attribute not cleared")
	}
	l.ObserveNavigation(router.Event{Seq: 99})

	if got := strings.Join(attrs, ","); got != "true," {
		t.Errorf("attr ops = %q, want one set and one clear", got)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d", l.Pending())
	}
}

func TestLoading_WithRouter(t *testing.T) {
	doc := dom.New(nil)
	loading := NewLoading(doc)
	r, _, _ := newTestRouter(t, "#/home", doc, router.WithObserver(loading))
	r.Before(loading)

	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Navigate(context.Background(), "/product/1"); err != nil {
		t.Fatal(err)
	}
	if doc.BodyAttr(LoadingAttr) != "" || loading.Pending() != 0 {
		t.Errorf("loading left on: attr=%q pending=%d", doc.BodyAttr(LoadingAttr), loading.Pending())
	}
}

func TestTitles(t *testing.T) {
	r, doc, _ := newTestRouter(t, "#/home", nil)
	r.After(Titles(doc, "Storefront", map[string]string{"home": "Home", "account": "Your account"}))
	ctx := context.Background()

	tests := []struct {
		path string
		want string
	}{
		{path: "/home", want: "Home | Storefront"},
		{path: "/account", want: "Your account | Storefront"},
		{path: "/product/9", want: "Pixel 9 | Storefront"},
		{path: "/login", want: "Storefront"},
	}
	for _, tt := range tests {
		if _, err := r.Navigate(ctx, tt.path); err != nil {
			t.Fatal(err)
		}
		if got := doc.Title(); got != tt.want {
			t.Errorf("title after %s = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	signedIn := false
	r, _, loc := newTestRouter(t, "#/home", nil)
	r.Before(RequireAuth(func(context.Context) bool { return signedIn }, "/login", "account"))
	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}

	outcome, err := r.Navigate(ctx, "/account?tab=orders")
	if err != nil {
		t.Fatal(err)
	}
	if outcome != router.OutcomeRedirected {
		t.Errorf("outcome = %v, want redirected", outcome)
	}
	nav, _ := r.CurrentRoute()
	if nav.RouteName() != "login" {
		t.Fatalf("route = %q, want login", nav.RouteName())
	}
	if got := nav.Query.Get("next"); got != "/account?tab=orders" {
		t.Errorf("next = %q", got)
	}
	if !strings.HasPrefix(loc.Hash(), "#/login?next=") {
		t.Errorf("hash = %q", loc.Hash())
	}

	signedIn = true
	if outcome, _ := r.Navigate(ctx, "/account"); outcome != router.OutcomeMounted {
		t.Errorf("signed-in outcome = %v, want mounted", outcome)
	}
	if outcome, _ := r.Navigate(ctx, "/home"); outcome != router.OutcomeMounted {
		t.Errorf("unguarded outcome = %v", outcome)
	}
}

func TestPageViews(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hook := PageViews(logger)

	hook.After(context.Background(), &router.Context{
		Seq:   3,
		Path:  "/products",
		Route: router.NewRoute("products", "/products"),
		Query: url.Values{"q": {"secret search"}, "category": {"phones"}},
	}, &stubPage{})

	out := buf.String()
	for _, want := range []string{"page view", "component=analytics", "route=products", "path=/products", "seq=3", "category", "q]"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "secret search") {
		t.Errorf("log leaked a query value: %s", out)
	}
}
