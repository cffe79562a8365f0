package router

import (
	"reflect"
	"testing"
)

func testTable() *Table {
	return NewTable("notfound",
		NewRoute("home", "/home"),
		NewRoute("products", "/products"),
		NewRoute("product", "/product/:id"),
		NewRoute("reviews", "/product/:id/reviews/:reviewID"),
		NewRoute("cart", "/cart"),
		NewRoute("checkout", "/checkout"),
		NewRoute("login", "/login"),
		NewRoute("orders", "/orders"),
		NewRoute("order", "/orders/:id"),
		NewRoute("help", "/help/*topic"),
	)
}

func TestNewRoute_ParamNames(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "/home", want: nil},
		{pattern: "/product/:id", want: []string{"id"}},
		{pattern: "/product/:id/reviews/:reviewID", want: []string{"id", "reviewID"}},
		{pattern: "/help/*topic", want: []string{"topic"}},
		{pattern: "/help/*topic/ignored", want: []string{"topic"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := NewRoute("r", tt.pattern).ParamNames
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParamNames = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTable_Match(t *testing.T) {
	table := testTable()

	tests := []struct {
		name      string
		path      string
		wantRoute string
		wantParam Params
	}{
		{name: "static", path: "/home", wantRoute: "home", wantParam: Params{}},
		{name: "param", path: "/product/42", wantRoute: "product", wantParam: Params{"id": "42"}},
		{name: "param decoded", path: "/product/abc%20123", wantRoute: "product", wantParam: Params{"id": "abc 123"}},
		{name: "bad escape kept raw", path: "/product/abc%zz", wantRoute: "product", wantParam: Params{"id": "abc%zz"}},
		{name: "two params", path: "/product/7/reviews/r%2F1", wantRoute: "reviews", wantParam: Params{"id": "7", "reviewID": "r/1"}},
		{name: "static before param", path: "/orders", wantRoute: "orders", wantParam: Params{}},
		{name: "order param", path: "/orders/o-9", wantRoute: "order", wantParam: Params{"id": "o-9"}},
		{name: "catch-all", path: "/help/returns/trade%20in", wantRoute: "help", wantParam: Params{"topic": "returns/trade in"}},
		{name: "catch-all needs a segment", path: "/help", wantRoute: "notfound", wantParam: Params{}},
		{name: "too many segments", path: "/cart/extra", wantRoute: "notfound", wantParam: Params{}},
		{name: "unknown", path: "/nowhere", wantRoute: "notfound", wantParam: Params{}},
		{name: "query ignored", path: "/products?q=x", wantRoute: "products", wantParam: Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := table.Match(tt.path)
			if m.Route.Name != tt.wantRoute {
				t.Errorf("Match(%q).Route = %q, want %q", tt.path, m.Route.Name, tt.wantRoute)
			}
			if !reflect.DeepEqual(m.Params, tt.wantParam) {
				t.Errorf("Match(%q).Params = %v, want %v", tt.path, m.Params, tt.wantParam)
			}
		})
	}
}

func TestTable_FirstMatchWins(t *testing.T) {
	table := NewTable("notfound",
		NewRoute("special", "/product/featured"),
		NewRoute("product", "/product/:id"),
		NewRoute("shadowed", "/product/featured"),
	)
	if got := table.Match("/product/featured").Route.Name; got != "special" {
		t.Errorf("Match = %q, want special", got)
	}
}

func TestTable_MatchIsTotal(t *testing.T) {
	table := testTable()
	inputs := []string{
		"", "/", "//", "#", "?", "%", "%%%", "/%zz", "\x00", "/product/", "/product//",
		"////product////42", "/ünïcödé/✓", "/orders/1/2/3/4/5", "not a path", "../../etc/passwd",
		"/help/", "*", ":id", "/product/:id",
	}
	for _, input := range inputs {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					t.Errorf("Match(%q) panicked: %v", input, rec)
				}
			}()
			m := table.Match(input)
			if m.Route.Name == "" {
				t.Errorf("Match(%q) returned an unnamed route", input)
			}
			if m.Params == nil {
				t.Errorf("Match(%q) returned nil params", input)
			}
		}()
	}
}

func TestTable_Resolve(t *testing.T) {
	table := testTable()

	tests := []struct {
		raw       string
		wantPath  string
		wantRoute string
		wantID    string
	}{
		{raw: "#/item/42", wantPath: "/product/42", wantRoute: "product", wantID: "42"},
		{raw: "#!/home", wantPath: "/home", wantRoute: "home"},
		{raw: "#/bag/", wantPath: "/cart", wantRoute: "cart"},
		{raw: "", wantPath: "/home", wantRoute: "home"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			path, m := table.Resolve(tt.raw)
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			if m.Route.Name != tt.wantRoute {
				t.Errorf("route = %q, want %q", m.Route.Name, tt.wantRoute)
			}
			if table.IsNotFound(m) {
				t.Errorf("%q fell back to NotFound", tt.raw)
			}
			if m.Params.Get("id") != tt.wantID {
				t.Errorf("id = %q, want %q", m.Params.Get("id"), tt.wantID)
			}
		})
	}
}

func TestTable_RoutesIsACopy(t *testing.T) {
	table := testTable()
	routes := table.Routes()
	routes[0].Name = "mutated"
	if table.Routes()[0].Name != "home" {
		t.Error("Routes() exposed internal state")
	}
	if table.NotFound().Name != "notfound" {
		t.Errorf("NotFound() = %q", table.NotFound().Name)
	}
}
