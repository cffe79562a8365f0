package routepath

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "/home"},
		{name: "bare hash", input: "#", want: "/home"},
		{name: "root hash", input: "#/", want: "/home"},
		{name: "only slashes", input: "#///", want: "/home"},
		{name: "canonical", input: "#/products", want: "/products"},
		{name: "no hash", input: "/cart", want: "/cart"},
		{name: "no leading slash", input: "#cart", want: "/cart"},
		{name: "trailing slash", input: "#/cart/", want: "/cart"},
		{name: "many trailing slashes", input: "#/orders/7///", want: "/orders/7"},
		{name: "repeated slashes", input: "#//orders//7", want: "/orders/7"},
		{name: "query preserved", input: "#/products/?q=pixel", want: "/products?q=pixel"},
		{name: "query on empty path", input: "#?q=pixel", want: "/home?q=pixel"},
		{name: "escapes untouched", input: "#/product/abc%20123", want: "/product/abc%20123"},
		{name: "surrounding space", input: "  #/cart ", want: "/cart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_LegacyMatchesCanonical(t *testing.T) {
	tests := []struct {
		legacy    string
		canonical string
	}{
		{legacy: "#!/home", canonical: "#/home"},
		{legacy: "#!/products", canonical: "#/products"},
		{legacy: "#!home", canonical: "#/home"},
		{legacy: "#/dashboard", canonical: "#/account"},
		{legacy: "#/bag", canonical: "#/cart"},
		{legacy: "#/bag/", canonical: "#/cart"},
		{legacy: "#/tradein", canonical: "#/trade-in"},
		{legacy: "#/my-orders", canonical: "#/orders"},
		{legacy: "#/index", canonical: "#/home"},
		{legacy: "#/item/42", canonical: "#/product/42"},
		{legacy: "#/item/abc%20123", canonical: "#/product/abc%20123"},
		{legacy: "#!/bag", canonical: "#/cart"},
		{legacy: "#!/item/9", canonical: "#/product/9"},
		{legacy: "#!/", canonical: "#/home"},
	}

	for _, tt := range tests {
		t.Run(tt.legacy, func(t *testing.T) {
			got, want := Normalize(tt.legacy), Normalize(tt.canonical)
			if got != want {
				t.Errorf("Normalize(%q) = %q, want %q (from %q)", tt.legacy, got, want, tt.canonical)
			}
			if !Canonicalize(tt.legacy).Rewritten {
				t.Errorf("Canonicalize(%q).Rewritten = false", tt.legacy)
			}
		})
	}
}

func TestNormalize_LeadingSlashAdded(t *testing.T) {
	for _, input := range []string{"home", "products", "product/7", "orders/1/", "a/b/c"} {
		got := Normalize(input)
		if !strings.HasPrefix(got, "/") || strings.HasPrefix(got, "//") {
			t.Errorf("Normalize(%q) = %q, want exactly one leading slash", input, got)
		}
		if strings.Contains(got, "//") {
			t.Errorf("Normalize(%q) = %q contains a double slash", input, got)
		}
	}
}

func TestNormalize_TrailingSlashesCollapse(t *testing.T) {
	for n := 0; n < 6; n++ {
		input := "/cart" + strings.Repeat("/", n)
		if got := Normalize(input); got != "/cart" {
			t.Errorf("Normalize(%q) = %q, want /cart", input, got)
		}
		root := strings.Repeat("/", n)
		if got := Normalize(root); got != DefaultPath {
			t.Errorf("Normalize(%q) = %q, want %q", root, got, DefaultPath)
		}
	}
}

func TestNormalize_NeverEmpty(t *testing.T) {
	inputs := []string{"", "#", "?", "#?", "/", "#!", "!", " ", "%", "#/%zz/", "\x00"}
	for _, input := range inputs {
		if got := Canonicalize(input).Path; got == "" {
			t.Errorf("Canonicalize(%q).Path is empty", input)
		}
	}
}

func TestSplit(t *testing.T) {
	path, query := Split("#/products?q=pixel+8&category=phones")
	if path != "/products" {
		t.Errorf("path = %q, want /products", path)
	}
	if got := query.Get("q"); got != "pixel 8" {
		t.Errorf("q = %q, want %q", got, "pixel 8")
	}
	if got := query.Get("category"); got != "phones" {
		t.Errorf("category = %q, want phones", got)
	}

	_, query = Split("#/products?%zz=1&ok=2")
	if got := query.Get("ok"); got != "2" {
		t.Errorf("malformed pair should not drop valid ones, ok = %q", got)
	}
}

func TestHash(t *testing.T) {
	if got := Hash("item/5"); got != "#/product/5" {
		t.Errorf("Hash = %q, want #/product/5", got)
	}
}

func TestIsRoot(t *testing.T) {
	for _, hash := range []string{"", "#", "#/", "#!/"} {
		if !IsRoot(hash) {
			t.Errorf("IsRoot(%q) = false", hash)
		}
	}
	for _, hash := range []string{"#/home", "#/cart"} {
		if IsRoot(hash) {
			t.Errorf("IsRoot(%q) = true", hash)
		}
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "abc%20123", want: "abc 123"},
		{in: "plain", want: "plain"},
		{in: "bad%zz", want: "bad%zz"},
		{in: "%E2%9C%93", want: "✓"},
	}
	for _, tt := range tests {
		if got := DecodeSegment(tt.in); got != tt.want {
			t.Errorf("DecodeSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitSegments(t *testing.T) {
	if got := SplitSegments("/"); got != nil {
		t.Errorf("SplitSegments(/) = %v, want nil", got)
	}
	got := SplitSegments("/orders/7")
	if len(got) != 2 || got[0] != "orders" || got[1] != "7" {
		t.Errorf("SplitSegments(/orders/7) = %v", got)
	}
}
