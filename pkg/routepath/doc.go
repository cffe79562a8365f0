// Package routepath normalizes hash-fragment paths for the storefront router.
//
// Every path the router sees goes through Normalize first, whether it came from
// the browser's location hash, a link, or a before-navigation redirect. The result
// is a canonical path that starts with exactly one "/" and has no trailing slash.
// An empty path becomes DefaultPath. Deprecated path forms are rewritten to their
// current equivalents:
//
//	#!/home        → /home
//	#/dashboard    → /account
//	#/bag          → /cart
//	#/item/42      → /product/42
//	#/products/?q=x → /products?q=x
//
// Normalize is total. It accepts any string and never fails.
package routepath
