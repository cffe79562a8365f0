// Package shop is the storefront's backend contract and its in-memory
// implementation.
//
// Pages only talk to the Backend interface. Memory keeps the catalog, carts,
// accounts and orders in process and can simulate network latency, which makes
// slow page mounts easy to reproduce.
package shop
