// Package client embeds the browser side of the storefront: a small script
// that forwards hash changes and form submissions over a websocket and
// applies the ops the server sends back.
package client

import "embed"

// FS holds the client's static files.
//
//go:embed storefront.js storefront.css
var FS embed.FS

// Script is the name of the client script in FS.
const Script = "storefront.js"

// Stylesheet is the name of the stylesheet in FS.
const Stylesheet = "storefront.css"
