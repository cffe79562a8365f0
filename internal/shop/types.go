package shop

import (
	"errors"
	"time"
)

// Backend errors. Pages show their messages to the user.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("please sign in")
	ErrInvalid      = errors.New("invalid request")
	ErrOutOfStock   = errors.New("out of stock")
	ErrEmptyCart    = errors.New("your cart is empty")
	ErrDeclined     = errors.New("payment declined")
)

// Product is a device for sale.
type Product struct {
	ID          string
	Name        string
	Brand       string
	Category    string
	Description string
	Price       Money
	Image       string
	Stock       int

	// TradeInValue is what a mint unit of this model is worth in trade.
	TradeInValue Money
}

// Query filters the catalog. Empty fields match everything.
type Query struct {
	Text     string
	Category string
}

// CartLine is one product in a cart.
type CartLine struct {
	Product  Product
	Quantity int
}

// Total returns the line total.
func (l CartLine) Total() Money {
	return l.Product.Price.Mul(l.Quantity)
}

// Cart is a session's shopping cart.
type Cart struct {
	ID    string
	Lines []CartLine
}

// Total returns the cart total.
func (c Cart) Total() Money {
	var total Money
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// Count returns the number of items in the cart.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Account is a signed-in customer.
type Account struct {
	ID    string
	Email string
	Name  string
}

// OrderStatus is an order's fulfilment stage.
type OrderStatus string

// Order statuses in fulfilment order.
const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
)

// Order is a placed order.
type Order struct {
	ID        string
	AccountID string
	Lines     []CartLine
	Total     Money
	PaymentID string
	PlacedAt  time.Time
}

// StatusAt returns the order's status at now. Orders ship after an hour and
// arrive after two days.
func (o Order) StatusAt(now time.Time) OrderStatus {
	switch age := now.Sub(o.PlacedAt); {
	case age >= 48*time.Hour:
		return StatusDelivered
	case age >= time.Hour:
		return StatusShipped
	default:
		return StatusProcessing
	}
}

// Payment carries checkout payment details.
type Payment struct {
	CardNumber string
	Name       string
}

// Condition grades a trade-in device.
type Condition string

// Trade-in conditions.
const (
	ConditionMint   Condition = "mint"
	ConditionGood   Condition = "good"
	ConditionFair   Condition = "fair"
	ConditionBroken Condition = "broken"
)

// TradeInRequest asks for a trade-in estimate.
type TradeInRequest struct {
	ProductID string
	Condition Condition
}

// TradeInQuote is a trade-in estimate.
type TradeInQuote struct {
	Product   Product
	Condition Condition
	Value     Money
}
