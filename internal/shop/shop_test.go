package shop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	if got := Dollars(12, 5).String(); got != "12.05" {
		t.Errorf("String() = %q", got)
	}
	if got := Money(-50).String(); got != "-0.50" {
		t.Errorf("String() = %q", got)
	}
	if got := Dollars(10, 0).Percent(75); got != Dollars(7, 50) {
		t.Errorf("Percent() = %v", got)
	}
	if got := Dollars(3, 33).Mul(3); got != Dollars(9, 99) {
		t.Errorf("Mul() = %v", got)
	}
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("en-US", "$")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		m    Money
		want string
	}{
		{Dollars(12, 50), "$12.50"},
		{Money(5), "$0.05"},
		{Dollars(1234, 50), "$1,234.50"},
		{-Dollars(3, 0), "-$3.00"},
	}
	for _, tt := range tests {
		if got := f.Format(tt.m); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.m, got, tt.want)
		}
	}

	if _, err := NewFormatter("not a locale!", "$"); err == nil {
		t.Error("NewFormatter accepted an invalid locale")
	}
}

func TestMemory_Catalog(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	all, err := m.Products(ctx, Query{})
	if err != nil || len(all) != len(DemoCatalog()) {
		t.Fatalf("Products() = %d, %v", len(all), err)
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"category", Query{Category: "tablets"}, []string{"ipad-air", "tab-s9"}},
		{"text", Query{Text: "pixel"}, []string{"pixel-9", "buds-pro"}},
		{"brand text", Query{Text: "samsung", Category: "phones"}, []string{"galaxy-s24"}},
		{"no match", Query{Text: "toaster"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Products(ctx, tt.q)
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("ids = %v, want %v", ids, tt.want)
				}
			}
		})
	}

	if _, err := m.Product(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Product(nope) error = %v", err)
	}
	cats, _ := m.Categories(ctx)
	if len(cats) != 4 || cats[0] != "accessories" {
		t.Errorf("Categories() = %v", cats)
	}
}

func TestMemory_Cart(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	cart, err := m.AddToCart(ctx, "c1", "pixel-9", 2)
	if err != nil {
		t.Fatal(err)
	}
	cart, err = m.AddToCart(ctx, "c1", "charger-45w", 1)
	if err != nil {
		t.Fatal(err)
	}
	if cart.Count() != 3 || cart.Total() != Dollars(1632, 99) {
		t.Errorf("cart = %d items, %v", cart.Count(), cart.Total())
	}

	if _, err := m.AddToCart(ctx, "c1", "tab-s9", 4); !errors.Is(err, ErrOutOfStock) {
		t.Errorf("over-stock add error = %v", err)
	}
	if _, err := m.AddToCart(ctx, "c1", "pixel-9", 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero quantity error = %v", err)
	}

	cart, _ = m.RemoveFromCart(ctx, "c1", "pixel-9")
	if cart.Count() != 1 {
		t.Errorf("after remove count = %d", cart.Count())
	}
	other, _ := m.Cart(ctx, "c2")
	if other.Count() != 0 {
		t.Error("carts are shared between sessions")
	}
}

func TestMemory_AccountsAndOrders(t *testing.T) {
	placed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	m := NewMemory(WithClock(func() time.Time { return placed }))
	ctx := context.Background()

	if _, _, err := m.Login(ctx, DemoEmail, "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bad password error = %v", err)
	}
	acct, token, err := m.Login(ctx, "  DEMO@storefront.test ", DemoPassword)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Account(ctx, token); got.ID != acct.ID {
		t.Errorf("Account() = %+v", got)
	}

	if _, err := m.PlaceOrder(ctx, token, "c1", Payment{CardNumber: "4242 4242 4242 4242"}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("empty cart order error = %v", err)
	}
	m.AddToCart(ctx, "c1", "galaxy-s24", 1)
	if _, err := m.PlaceOrder(ctx, token, "c1", Payment{CardNumber: "4000 0000 0000 0002"}); !errors.Is(err, ErrDeclined) {
		t.Errorf("declined card error = %v", err)
	}
	if _, err := m.PlaceOrder(ctx, "bogus", "c1", Payment{CardNumber: "4242424242424242"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("anonymous order error = %v", err)
	}

	order, err := m.PlaceOrder(ctx, token, "c1", Payment{CardNumber: "4242424242424242"})
	if err != nil {
		t.Fatal(err)
	}
	if order.Total != Dollars(759, 99) || order.PaymentID == "" {
		t.Errorf("order = %+v", order)
	}
	if cart, _ := m.Cart(ctx, "c1"); cart.Count() != 0 {
		t.Error("cart not emptied after checkout")
	}
	if p, _ := m.Product(ctx, "galaxy-s24"); p.Stock != 4 {
		t.Errorf("stock = %d, want 4", p.Stock)
	}

	orders, _ := m.Orders(ctx, token)
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Errorf("Orders() = %+v", orders)
	}
	if _, err := m.Order(ctx, token, order.ID); err != nil {
		t.Errorf("Order() error = %v", err)
	}

	_, otherToken, _ := func() (Account, string, error) {
		m.AddAccount("other@storefront.test", "pw", "Other")
		return m.Login(ctx, "other@storefront.test", "pw")
	}()
	if _, err := m.Order(ctx, otherToken, order.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign order error = %v", err)
	}

	if err := m.Logout(ctx, token); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Orders(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("orders after logout error = %v", err)
	}
}

func TestOrder_StatusAt(t *testing.T) {
	placed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	o := Order{PlacedAt: placed}
	tests := []struct {
		after time.Duration
		want  OrderStatus
	}{
		{0, StatusProcessing},
		{59 * time.Minute, StatusProcessing},
		{time.Hour, StatusShipped},
		{48 * time.Hour, StatusDelivered},
	}
	for _, tt := range tests {
		if got := o.StatusAt(placed.Add(tt.after)); got != tt.want {
			t.Errorf("StatusAt(+%v) = %s, want %s", tt.after, got, tt.want)
		}
	}
}

func TestMemory_TradeIn(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	q, err := m.EstimateTradeIn(ctx, TradeInRequest{ProductID: "pixel-9", Condition: ConditionGood})
	if err != nil {
		t.Fatal(err)
	}
	if q.Value != Dollars(315, 0) {
		t.Errorf("good pixel-9 = %v, want 315.00", q.Value)
	}
	if _, err := m.EstimateTradeIn(ctx, TradeInRequest{ProductID: "pixel-9", Condition: "shiny"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("bad condition error = %v", err)
	}
	if _, err := m.EstimateTradeIn(ctx, TradeInRequest{ProductID: "charger-45w", Condition: ConditionMint}); !errors.Is(err, ErrInvalid) {
		t.Errorf("ineligible product error = %v", err)
	}
}

func TestMemory_LatencyHonorsContext(t *testing.T) {
	m := NewMemory(WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := m.Products(ctx, Query{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Products() error = %v, want deadline exceeded", err)
	}
}
