package routepath

import (
	"net/url"
	"strings"
)

// DefaultPath is where empty and root paths land.
const DefaultPath = "/home"

// legacyPaths maps deprecated paths to their canonical replacements.
var legacyPaths = map[string]string{
	"/dashboard": "/account",
	"/bag":       "/cart",
	"/tradein":   "/trade-in",
	"/my-orders": "/orders",
	"/index":     "/home",
}

// legacyPrefixes rewrite a deprecated leading portion of a path and keep the rest.
// The hashbang rule leaves a double slash behind, which the follow-up pass collapses.
var legacyPrefixes = []struct {
	from string
	to   string
}{
	{from: "/!", to: "/"},
	{from: "/item/", to: "/product/"},
}

// Result contains the outcome of normalizing a raw hash path.
type Result struct {
	// Path is the canonical path (without query string).
	Path string

	// Query is the raw query string (without leading "?").
	Query string

	// Rewritten indicates a legacy rewrite rule fired.
	Rewritten bool
}

// String returns the path with its query string re-attached.
func (r Result) String() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// Canonicalize normalizes a raw hash path. The input may carry a leading "#",
// a hashbang, a query string and any number of stray slashes.
//
// When a legacy rewrite fires, normalization runs exactly once more so that
// chained forms such as "#!/bag" reach their canonical path ("/cart").
func Canonicalize(raw string) Result {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "#")
	path, query, _ := strings.Cut(raw, "?")

	path = clean(path)
	rewritten, ok := rewriteLegacy(path)
	if ok {
		path = clean(rewritten)
		if again, ok := rewriteLegacy(path); ok {
			path = clean(again)
		}
	}

	return Result{Path: path, Query: query, Rewritten: ok}
}

// Normalize returns the canonical form of raw, query string included.
func Normalize(raw string) string {
	return Canonicalize(raw).String()
}

// Split returns the canonical path and the parsed query of raw.
// Malformed query pairs are skipped.
func Split(raw string) (string, url.Values) {
	r := Canonicalize(raw)
	query, _ := url.ParseQuery(r.Query)
	return r.Path, query
}

// Hash returns the location hash ("#/path") for raw.
func Hash(raw string) string {
	return "#" + Normalize(raw)
}

// IsRoot reports whether a location hash carries no route at all.
func IsRoot(hash string) bool {
	switch strings.TrimSpace(hash) {
	case "", "#", "#/", "#!", "#!/":
		return true
	}
	return false
}

// DecodeSegment URL-decodes a single path segment.
// A segment with a malformed escape is returned as-is.
func DecodeSegment(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

// SplitSegments splits a canonical path into its raw segments.
func SplitSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// clean applies the structural rules: leading slash, no repeated or trailing
// slashes, and DefaultPath for anything that collapses to nothing.
func clean(path string) string {
	if path == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return DefaultPath
	}
	return path
}

// rewriteLegacy applies the first matching legacy rule to a cleaned path.
func rewriteLegacy(path string) (string, bool) {
	if to, ok := legacyPaths[path]; ok {
		return to, true
	}
	for _, rule := range legacyPrefixes {
		if strings.HasPrefix(path, rule.from) {
			return rule.to + strings.TrimPrefix(path, rule.from), true
		}
	}
	return path, false
}
