package pages

import "github.com/vango-dev/storefront/pkg/router"

// Route names. They double as page registry keys and nav tab ids.
const (
	Home     = "home"
	Products = "products"
	Product  = "product"
	TradeIn  = "tradein"
	Cart     = "cart"
	Checkout = "checkout"
	Orders   = "orders"
	Order    = "order"
	Account  = "account"
	Login    = "login"
	NotFound = "notfound"
)

// LoginPath is where anonymous users are sent for protected routes.
const LoginPath = "/login"

// Protected lists the routes that need a signed-in customer.
var Protected = []string{Account, Orders, Order, Checkout}

// Titles are the document titles of routes whose pages do not name themselves.
var Titles = map[string]string{
	Home:     "Home",
	Products: "Shop",
	TradeIn:  "Trade in",
	Cart:     "Cart",
	Checkout: "Checkout",
	Orders:   "Your orders",
	Account:  "Your account",
	Login:    "Sign in",
	NotFound: "Not found",
}

// Table returns the storefront route table.
func Table() *router.Table {
	return router.NewTable(NotFound,
		router.NewRoute(Home, "/home"),
		router.NewRoute(Products, "/products"),
		router.NewRoute(Product, "/product/:id"),
		router.NewRoute(TradeIn, "/trade-in"),
		router.NewRoute(Cart, "/cart"),
		router.NewRoute(Checkout, "/checkout"),
		router.NewRoute(Orders, "/orders"),
		router.NewRoute(Order, "/orders/:id"),
		router.NewRoute(Account, "/account"),
		router.NewRoute(Login, "/login"),
	)
}
