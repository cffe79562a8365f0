package assets

// Resolver turns a source asset name into the URL path the browser loads.
type Resolver interface {
	// Asset resolves a source asset name, e.g. "storefront.js" becomes
	// "/static/storefront.3f9a1c02.js".
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that prefixes fingerprinted names.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that only applies prefix. Servers
// use it in development so edited assets keep their names.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
