package pages

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/pkg/assets"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/toast"
)

// Env holds the collaborators shared by every page of a server.
type Env struct {
	Backend shop.Backend
	Money   *shop.Formatter
	Images  assets.ImageResolver
	Logger  *slog.Logger

	// Now reports the time used for order status. Defaults to time.Now.
	Now func() time.Time
}

// Session is the per-visitor state pages read and write.
type Session interface {
	toast.Emitter

	// CartID identifies the visitor's cart.
	CartID() string

	// Token is the signed-in customer's token, or "".
	Token() string

	// SetToken stores the token. "" signs out.
	SetToken(token string)

	// NavigateTo moves the visitor to path.
	NavigateTo(ctx context.Context, path string) error
}

// Registry returns the page registry for one session.
func Registry(env *Env, sess Session) router.Registry {
	page := func(build func(v *view) router.Page) router.PageFactory {
		return func(context.Context) (router.Page, error) {
			return build(&view{env: env, sess: sess}), nil
		}
	}
	return router.Registry{
		Home:     page(func(v *view) router.Page { return &homePage{view: v} }),
		Products: page(func(v *view) router.Page { return &productsPage{view: v} }),
		Product:  page(func(v *view) router.Page { return &productPage{view: v} }),
		TradeIn:  page(func(v *view) router.Page { return &tradeInPage{view: v} }),
		Cart:     page(func(v *view) router.Page { return &cartPage{view: v} }),
		Checkout: page(func(v *view) router.Page { return &checkoutPage{view: v} }),
		Orders:   page(func(v *view) router.Page { return &ordersPage{view: v} }),
		Order:    page(func(v *view) router.Page { return &orderPage{view: v} }),
		Account:  page(func(v *view) router.Page { return &accountPage{view: v} }),
		Login:    page(func(v *view) router.Page { return &loginPage{view: v} }),
		NotFound: page(func(v *view) router.Page { return &notFoundPage{view: v} }),
	}
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default().With("component", "pages")
	}
	return e.Logger
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) price(m shop.Money) string {
	if e.Money == nil {
		return "$" + m.String()
	}
	return e.Money.Format(m)
}

// imageURL resolves key, logging and returning "" on failure so a missing
// image never fails a page.
func (e *Env) imageURL(ctx context.Context, key string) string {
	if e.Images == nil || key == "" {
		return ""
	}
	u, err := e.Images.ImageURL(ctx, key)
	if err != nil {
		e.logger().Warn("image url", "key", key, "error", err)
		return ""
	}
	return u
}
