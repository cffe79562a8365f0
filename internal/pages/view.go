package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"sync"

	serrors "github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/toast"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))

// view is the state every page shares: its collaborators and the target it
// was mounted into.
type view struct {
	env  *Env
	sess Session

	mu     sync.Mutex
	target router.Target
}

func (v *view) attach(target router.Target) {
	v.mu.Lock()
	v.target = target
	v.mu.Unlock()
}

// Unmount detaches the page from its target. Later renders are dropped.
func (v *view) Unmount() {
	v.attach(nil)
}

func (v *view) render(name string, data any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return serrors.New("E303").WithDetail("template " + name).Wrap(err)
	}
	v.mu.Lock()
	target := v.target
	v.mu.Unlock()
	if target != nil {
		target.Render(buf.String())
	}
	return nil
}

type productCard struct {
	ID          string
	Name        string
	Brand       string
	Category    string
	Description string
	Price       string
	Image       string
	TradeIn     string
	Stock       int
}

func (c productCard) InStock() bool { return c.Stock > 0 }

func (v *view) card(ctx context.Context, p shop.Product) productCard {
	c := productCard{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
		Price:       v.env.price(p.Price),
		Image:       v.env.imageURL(ctx, p.Image),
		Stock:       p.Stock,
	}
	if p.TradeInValue > 0 {
		c.TradeIn = v.env.price(p.TradeInValue)
	}
	return c
}

func (v *view) cards(ctx context.Context, products []shop.Product) []productCard {
	out := make([]productCard, 0, len(products))
	for _, p := range products {
		out = append(out, v.card(ctx, p))
	}
	return out
}

type lineView struct {
	Product  productCard
	Quantity int
	Total    string
}

func (v *view) lines(ctx context.Context, lines []shop.CartLine) []lineView {
	out := make([]lineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineView{
			Product:  v.card(ctx, l.Product),
			Quantity: l.Quantity,
			Total:    v.env.price(l.Total()),
		})
	}
	return out
}

// addToCart handles the add-to-cart form. fallbackID is used when the form
// carries no product id.
func (v *view) addToCart(ctx context.Context, values url.Values, fallbackID string) error {
	id := values.Get("id")
	if id == "" {
		id = fallbackID
	}
	qty := 1
	if s := values.Get("qty"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: quantity %q", shop.ErrInvalid, s)
		}
		qty = n
	}
	cart, err := v.env.Backend.AddToCart(ctx, v.sess.CartID(), id, qty)
	if err != nil {
		return err
	}
	toast.Success(v.sess, "Added to cart. "+items(cart.Count())+" in your cart.")
	return nil
}

// signIn clears a stale token and renders a sign-in prompt that returns to
// next.
func (v *view) signIn(next string) error {
	v.sess.SetToken("")
	return v.render("signin", struct{ Next string }{Next: next})
}

func items(n int) string {
	if n == 1 {
		return "1 item"
	}
	return strconv.Itoa(n) + " items"
}

func unknownForm(form string) error {
	return fmt.Errorf("%w %q", router.ErrUnknownForm, form)
}
