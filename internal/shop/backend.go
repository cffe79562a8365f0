package shop

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Backend is the storefront's backend contract.
type Backend interface {
	Products(ctx context.Context, q Query) ([]Product, error)
	Product(ctx context.Context, id string) (Product, error)
	Categories(ctx context.Context) ([]string, error)

	Cart(ctx context.Context, cartID string) (Cart, error)
	AddToCart(ctx context.Context, cartID, productID string, qty int) (Cart, error)
	RemoveFromCart(ctx context.Context, cartID, productID string) (Cart, error)

	Login(ctx context.Context, email, password string) (Account, string, error)
	Logout(ctx context.Context, token string) error
	Account(ctx context.Context, token string) (Account, error)

	PlaceOrder(ctx context.Context, token, cartID string, pay Payment) (Order, error)
	Orders(ctx context.Context, token string) ([]Order, error)
	Order(ctx context.Context, token, id string) (Order, error)

	EstimateTradeIn(ctx context.Context, req TradeInRequest) (TradeInQuote, error)
}

// PaymentGateway charges cards.
type PaymentGateway interface {
	Charge(ctx context.Context, amount Money, pay Payment) (string, error)
}

// TestGateway approves every card except those ending in 0002, which it
// declines. It never moves money.
type TestGateway struct{}

// Charge implements PaymentGateway.
func (TestGateway) Charge(_ context.Context, amount Money, pay Payment) (string, error) {
	card := strings.ReplaceAll(pay.CardNumber, " ", "")
	if len(card) < 12 {
		return "", fmt.Errorf("%w: card number", ErrInvalid)
	}
	if strings.HasSuffix(card, "0002") {
		return "", ErrDeclined
	}
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount %s", ErrInvalid, amount)
	}
	return "ch_" + uuid.NewString(), nil
}

type user struct {
	account  Account
	password string
}

// Memory is an in-process Backend. It is safe for concurrent use.
type Memory struct {
	latency time.Duration
	gateway PaymentGateway
	now     func() time.Time

	mu       sync.RWMutex
	products []Product
	users    map[string]user
	tokens   map[string]string
	carts    map[string]map[string]int
	orders   map[string]Order
}

// MemoryOption configures a Memory backend.
type MemoryOption func(*Memory)

// WithLatency delays every call, simulating a remote backend.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *Memory) { m.latency = d }
}

// WithGateway sets the payment gateway. The default is TestGateway.
func WithGateway(g PaymentGateway) MemoryOption {
	return func(m *Memory) { m.gateway = g }
}

// WithClock sets the clock used for order timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates a backend stocked with the demo catalog and account.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		gateway:  TestGateway{},
		now:      time.Now,
		products: DemoCatalog(),
		users:    make(map[string]user),
		tokens:   make(map[string]string),
		carts:    make(map[string]map[string]int),
		orders:   make(map[string]Order),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.AddAccount(DemoEmail, DemoPassword, "Demo Customer")
	return m
}

// AddAccount registers a customer.
func (m *Memory) AddAccount(email, password, name string) Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := Account{ID: uuid.NewString(), Email: strings.ToLower(email), Name: name}
	m.users[acct.Email] = user{account: acct, password: password}
	return acct
}

// wait simulates latency and honors ctx.
func (m *Memory) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Products implements Backend.
func (m *Memory) Products(ctx context.Context, q Query) ([]Product, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Product
	for _, p := range m.products {
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Brand), text) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Product implements Backend.
func (m *Memory) Product(ctx context.Context, id string) (Product, error) {
	if err := m.wait(ctx); err != nil {
		return Product{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.product(id)
}

func (m *Memory) product(id string) (Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("product %q: %w", id, ErrNotFound)
}

// Categories implements Backend.
func (m *Memory) Categories(ctx context.Context) ([]string, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Cart implements Backend. An unknown cart is empty.
func (m *Memory) Cart(ctx context.Context, cartID string) (Cart, error) {
	if err := m.wait(ctx); err != nil {
		return Cart{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart(cartID), nil
}

func (m *Memory) cart(cartID string) Cart {
	c := Cart{ID: cartID}
	for id, qty := range m.carts[cartID] {
		p, err := m.product(id)
		if err != nil {
			continue
		}
		c.Lines = append(c.Lines, CartLine{Product: p, Quantity: qty})
	}
	sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].Product.ID < c.Lines[j].Product.ID })
	return c
}

// AddToCart implements Backend.
func (m *Memory) AddToCart(ctx context.Context, cartID, productID string, qty int) (Cart, error) {
	if err := m.wait(ctx); err != nil {
		return Cart{}, err
	}
	if cartID == "" || qty <= 0 {
		return Cart{}, fmt.Errorf("%w: quantity %d", ErrInvalid, qty)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.product(productID)
	if err != nil {
		return Cart{}, err
	}
	lines := m.carts[cartID]
	if lines == nil {
		lines = make(map[string]int)
		m.carts[cartID] = lines
	}
	if lines[productID]+qty > p.Stock {
		return Cart{}, fmt.Errorf("%s: %w", p.Name, ErrOutOfStock)
	}
	lines[productID] += qty
	return m.cart(cartID), nil
}

// RemoveFromCart implements Backend.
func (m *Memory) RemoveFromCart(ctx context.Context, cartID, productID string) (Cart, error) {
	if err := m.wait(ctx); err != nil {
		return Cart{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts[cartID], productID)
	return m.cart(cartID), nil
}

// Login implements Backend. It returns the account and a session token.
func (m *Memory) Login(ctx context.Context, email, password string) (Account, string, error) {
	if err := m.wait(ctx); err != nil {
		return Account{}, "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || subtle.ConstantTimeCompare([]byte(u.password), []byte(password)) != 1 {
		return Account{}, "", fmt.Errorf("%w: wrong email or password", ErrUnauthorized)
	}
	token := uuid.NewString()
	m.tokens[token] = u.account.Email
	return u.account, token, nil
}

// Logout implements Backend.
func (m *Memory) Logout(ctx context.Context, token string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// Account implements Backend.
func (m *Memory) Account(ctx context.Context, token string) (Account, error) {
	if err := m.wait(ctx); err != nil {
		return Account{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account(token)
}

func (m *Memory) account(token string) (Account, error) {
	email, ok := m.tokens[token]
	if !ok {
		return Account{}, ErrUnauthorized
	}
	return m.users[email].account, nil
}

// PlaceOrder implements Backend. It charges the cart total, decrements stock
// and empties the cart.
func (m *Memory) PlaceOrder(ctx context.Context, token, cartID string, pay Payment) (Order, error) {
	if err := m.wait(ctx); err != nil {
		return Order{}, err
	}

	m.mu.RLock()
	acct, err := m.account(token)
	cart := m.cart(cartID)
	m.mu.RUnlock()
	if err != nil {
		return Order{}, err
	}
	if len(cart.Lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	paymentID, err := m.gateway.Charge(ctx, cart.Total(), pay)
	if err != nil {
		return Order{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range cart.Lines {
		for i := range m.products {
			if m.products[i].ID == l.Product.ID {
				m.products[i].Stock -= l.Quantity
			}
		}
	}
	delete(m.carts, cartID)
	order := Order{
		ID:        uuid.NewString(),
		AccountID: acct.ID,
		Lines:     cart.Lines,
		Total:     cart.Total(),
		PaymentID: paymentID,
		PlacedAt:  m.now(),
	}
	m.orders[order.ID] = order
	return order, nil
}

// Orders implements Backend. Newest orders come first.
func (m *Memory) Orders(ctx context.Context, token string) ([]Order, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, err := m.account(token)
	if err != nil {
		return nil, err
	}
	var out []Order
	for _, o := range m.orders {
		if o.AccountID == acct.ID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	return out, nil
}

// Order implements Backend. Orders of other accounts are reported as not found.
func (m *Memory) Order(ctx context.Context, token, id string) (Order, error) {
	if err := m.wait(ctx); err != nil {
		return Order{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, err := m.account(token)
	if err != nil {
		return Order{}, err
	}
	o, ok := m.orders[id]
	if !ok || o.AccountID != acct.ID {
		return Order{}, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	return o, nil
}

// conditionPercent is the share of a mint trade-in value paid per condition.
var conditionPercent = map[Condition]int{
	ConditionMint:   100,
	ConditionGood:   75,
	ConditionFair:   50,
	ConditionBroken: 10,
}

// EstimateTradeIn implements Backend.
func (m *Memory) EstimateTradeIn(ctx context.Context, req TradeInRequest) (TradeInQuote, error) {
	if err := m.wait(ctx); err != nil {
		return TradeInQuote{}, err
	}
	pct, ok := conditionPercent[req.Condition]
	if !ok {
		return TradeInQuote{}, fmt.Errorf("%w: condition %q", ErrInvalid, req.Condition)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, err := m.product(req.ProductID)
	if err != nil {
		return TradeInQuote{}, err
	}
	if p.TradeInValue == 0 {
		return TradeInQuote{}, fmt.Errorf("%w: %s is not eligible for trade-in", ErrInvalid, p.Name)
	}
	return TradeInQuote{Product: p, Condition: req.Condition, Value: p.TradeInValue.Percent(pct)}, nil
}
