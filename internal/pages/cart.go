package pages

import (
	"context"
	"errors"
	"net/url"

	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/pkg/router"
	"github.com/vango-dev/storefront/pkg/toast"
)

type cartData struct {
	Lines []lineView
	Total string
	Name  string
}

func (v *view) cartData(ctx context.Context, cart shop.Cart) cartData {
	return cartData{
		Lines: v.lines(ctx, cart.Lines),
		Total: v.env.price(cart.Total()),
	}
}

type cartPage struct {
	*view
}

func (p *cartPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	cart, err := p.env.Backend.Cart(ctx, p.sess.CartID())
	if err != nil {
		return err
	}
	return p.render("cart", p.cartData(ctx, cart))
}

func (p *cartPage) Submit(ctx context.Context, form string, values url.Values) error {
	if form != "remove" {
		return unknownForm(form)
	}
	cart, err := p.env.Backend.RemoveFromCart(ctx, p.sess.CartID(), values.Get("id"))
	if err != nil {
		return err
	}
	toast.Info(p.sess, "Removed from cart")
	return p.render("cart", p.cartData(ctx, cart))
}

// checkoutPage places the order and moves the customer to its tracking page.
type checkoutPage struct {
	*view
}

func (p *checkoutPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	acct, err := p.env.Backend.Account(ctx, p.sess.Token())
	if errors.Is(err, shop.ErrUnauthorized) {
		return p.signIn("/checkout")
	}
	if err != nil {
		return err
	}
	cart, err := p.env.Backend.Cart(ctx, p.sess.CartID())
	if err != nil {
		return err
	}
	data := p.cartData(ctx, cart)
	data.Name = acct.Name
	return p.render("checkout", data)
}

func (p *checkoutPage) Submit(ctx context.Context, form string, values url.Values) error {
	if form != "checkout" {
		return unknownForm(form)
	}
	pay := shop.Payment{
		CardNumber: values.Get("card"),
		Name:       values.Get("name"),
	}
	order, err := p.env.Backend.PlaceOrder(ctx, p.sess.Token(), p.sess.CartID(), pay)
	if err != nil {
		return err
	}
	p.env.logger().Info("order placed", "order", order.ID, "total", order.Total.String())
	toast.WithTitle(p.sess, toast.TypeSuccess, "Order placed", "We will let you know when it ships.")
	return p.sess.NavigateTo(ctx, "/orders/"+order.ID)
}
