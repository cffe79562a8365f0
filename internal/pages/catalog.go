package pages

import (
	"context"
	"net/url"
	"strings"

	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/pkg/router"
)

const featuredCount = 3

type homePage struct {
	*view
}

func (p *homePage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	products, err := p.env.Backend.Products(ctx, shop.Query{})
	if err != nil {
		return err
	}
	categories, err := p.env.Backend.Categories(ctx)
	if err != nil {
		return err
	}
	if len(products) > featuredCount {
		products = products[:featuredCount]
	}
	return p.render("home", struct {
		Featured   []productCard
		Categories []string
	}{p.cards(ctx, products), categories})
}

func (p *homePage) Submit(ctx context.Context, form string, values url.Values) error {
	if form != "add-to-cart" {
		return unknownForm(form)
	}
	return p.addToCart(ctx, values, "")
}

// productsPage lists the catalog, filtered by the "q" and "category" query
// parameters.
type productsPage struct {
	*view
}

func (p *productsPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	var q shop.Query
	if nav, ok := router.FromContext(ctx); ok {
		q.Text = strings.TrimSpace(nav.Query.Get("q"))
		q.Category = nav.Query.Get("category")
	}
	products, err := p.env.Backend.Products(ctx, q)
	if err != nil {
		return err
	}
	categories, err := p.env.Backend.Categories(ctx)
	if err != nil {
		return err
	}
	return p.render("products", struct {
		Query      string
		Category   string
		Categories []string
		Products   []productCard
	}{q.Text, q.Category, categories, p.cards(ctx, products)})
}

func (p *productsPage) Submit(ctx context.Context, form string, values url.Values) error {
	switch form {
	case "add-to-cart":
		return p.addToCart(ctx, values, "")
	case "search":
		q := url.Values{}
		if s := strings.TrimSpace(values.Get("q")); s != "" {
			q.Set("q", s)
		}
		if c := values.Get("category"); c != "" {
			q.Set("category", c)
		}
		path := "/products"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
		return p.sess.NavigateTo(ctx, path)
	default:
		return unknownForm(form)
	}
}

// productPage shows one product. An unknown id fails the mount, which lands
// the visitor on the NotFound page.
type productPage struct {
	*view
	id    string
	title string
}

func (p *productPage) Mount(ctx context.Context, target router.Target, params router.Params) error {
	p.attach(target)
	product, err := p.env.Backend.Product(ctx, params.Get("id"))
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.id = product.ID
	p.title = product.Name
	p.mu.Unlock()
	return p.render("product", p.card(ctx, product))
}

// Title names the document after the product.
func (p *productPage) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

func (p *productPage) Submit(ctx context.Context, form string, values url.Values) error {
	if form != "add-to-cart" {
		return unknownForm(form)
	}
	p.mu.Lock()
	id := p.id
	p.mu.Unlock()
	return p.addToCart(ctx, values, id)
}

type quoteView struct {
	Device    string
	Condition shop.Condition
	Value     string
}

var conditions = []shop.Condition{
	shop.ConditionMint,
	shop.ConditionGood,
	shop.ConditionFair,
	shop.ConditionBroken,
}

// tradeInPage estimates trade-in values. The "product" query parameter
// preselects a device.
type tradeInPage struct {
	*view
	devices   []productCard
	selected  string
	condition string
	quote     *quoteView
}

func (p *tradeInPage) Mount(ctx context.Context, target router.Target, _ router.Params) error {
	p.attach(target)
	products, err := p.env.Backend.Products(ctx, shop.Query{})
	if err != nil {
		return err
	}
	var devices []productCard
	for _, pr := range products {
		if pr.TradeInValue > 0 {
			devices = append(devices, p.card(ctx, pr))
		}
	}
	p.mu.Lock()
	p.devices = devices
	p.condition = string(shop.ConditionGood)
	if nav, ok := router.FromContext(ctx); ok {
		p.selected = nav.Query.Get("product")
	}
	p.mu.Unlock()
	return p.show()
}

func (p *tradeInPage) show() error {
	p.mu.Lock()
	data := struct {
		Devices    []productCard
		Conditions []shop.Condition
		Selected   string
		Condition  string
		Quote      *quoteView
	}{p.devices, conditions, p.selected, p.condition, p.quote}
	p.mu.Unlock()
	return p.render("tradein", data)
}

func (p *tradeInPage) Submit(ctx context.Context, form string, values url.Values) error {
	if form != "trade-in" {
		return unknownForm(form)
	}
	req := shop.TradeInRequest{
		ProductID: values.Get("product"),
		Condition: shop.Condition(values.Get("condition")),
	}
	quote, err := p.env.Backend.EstimateTradeIn(ctx, req)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.selected = req.ProductID
	p.condition = string(req.Condition)
	p.quote = &quoteView{
		Device:    quote.Product.Name,
		Condition: quote.Condition,
		Value:     p.env.price(quote.Value),
	}
	p.mu.Unlock()
	return p.show()
}
