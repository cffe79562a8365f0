package pages

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/pkg/routepath"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/toast"
)

const placedLayout = "Jan 2, 2006 15:04"

type accountPage struct {
	*view
}

func (p *accountPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	acct, err := p.env.Backend.Account(ctx, p.sess.Token())
	if errors.Is(err, shop.ErrUnauthorized) {
		return p.signIn("/account")
	}
	if err != nil {
		return err
	}
	return p.render("account", acct)
}

func (p *accountPage) Submit(ctx context.Context, form string, _ url.Values) error {
	if form != "logout" {
		return unknownForm(form)
	}
	if err := p.env.Backend.Logout(ctx, p.sess.Token()); err != nil && !errors.Is(err, shop.ErrUnauthorized) {
		return err
	}
	p.sess.SetToken("")
	toast.Info(p.sess, "Signed out")
	return p.sess.NavigateTo(ctx, "/home")
}

// loginPage signs the customer in and sends them on to the "next" query
// parameter, or their account.
type loginPage struct {
	*view
	next  string
	email string
}

func (p *loginPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	p.mu.Lock()
	if nav, ok := router.FromContext(ctx); ok {
		p.next = nav.Query.Get("next")
	}
	p.mu.Unlock()
	return p.show()
}

func (p *loginPage) show() error {
	p.mu.Lock()
	data := struct{ Next, Email string }{p.next, p.email}
	p.mu.Unlock()
	return p.render("login", data)
}

func (p *loginPage) Submit(ctx context.Context, form string, values url.Values) error {
	if form != "login" {
		return unknownForm(form)
	}
	email := strings.TrimSpace(values.Get("email"))
	acct, token, err := p.env.Backend.Login(ctx, email, values.Get("password"))
	if err != nil {
		p.mu.Lock()
		p.email = email
		p.mu.Unlock()
		if rerr := p.show(); rerr != nil {
			p.env.logger().Warn("login render", "error", rerr)
		}
		return err
	}
	p.sess.SetToken(token)
	toast.Success(p.sess, "Welcome back, "+acct.Name)
	return p.sess.NavigateTo(ctx, nextPath(values.Get("next")))
}

// nextPath turns a "next" parameter into a hash path. Anything pointing back
// at the login page goes to the account instead.
func nextPath(next string) string {
	if strings.TrimSpace(next) == "" {
		return "/account"
	}
	path := routepath.Normalize(next)
	if p, _, _ := strings.Cut(path, "?"); p == LoginPath {
		return "/account"
	}
	return path
}

type orderView struct {
	ID     string
	Short  string
	Placed string
	Status shop.OrderStatus
	Items  string
	Total  string
	Lines  []lineView
}

func (v *view) order(ctx context.Context, o shop.Order) orderView {
	count := 0
	for _, l := range o.Lines {
		count += l.Quantity
	}
	return orderView{
		ID:     o.ID,
		Short:  shortID(o.ID),
		Placed: o.PlacedAt.Format(placedLayout),
		Status: o.StatusAt(v.env.now()),
		Items:  items(count),
		Total:  v.env.price(o.Total),
		Lines:  v.lines(ctx, o.Lines),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

type ordersPage struct {
	*view
}

func (p *ordersPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	orders, err := p.env.Backend.Orders(ctx, p.sess.Token())
	if errors.Is(err, shop.ErrUnauthorized) {
		return p.signIn("/orders")
	}
	if err != nil {
		return err
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, p.order(ctx, o))
	}
	return p.render("orders", views)
}

// orderPage tracks one order. An order that does not exist, or belongs to
// someone else, fails the mount.
type orderPage struct {
	*view
	title string
}

func (p *orderPage) Mount(ctx context.Context, target router.Target, params router.Params) error {
	p.attach(target)
	id := params.Get("id")
	o, err := p.env.Backend.Order(ctx, p.sess.Token(), id)
	if errors.Is(err, shop.ErrUnauthorized) {
		return p.signIn("/orders/" + id)
	}
	if err != nil {
		return err
	}
	ov := p.order(ctx, o)
	p.mu.Lock()
	p.title = "Order " + ov.Short
	p.mu.Unlock()
	return p.render("order", ov)
}

// Title names the document after the order.
func (p *orderPage) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// notFoundPage must always mount.
type notFoundPage struct {
	*view
}

func (p *notFoundPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	path := ""
	if nav, ok := router.FromContext(ctx); ok {
		path = nav.Path
	}
	if err := p.render("notfound", path); err != nil {
		p.env.logger().Error("notfound render", "error", err)
		target.Render("<h1>Page not found</h1>")
	}
	return nil
}
