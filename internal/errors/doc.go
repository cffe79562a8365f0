// Package errors provides coded, structured errors for the storefront.
//
// Every error carries a code (e.g. "E203") registered with a category, a short
// message and a longer detail. Callers attach context and wrap causes:
//
//	err := errors.New("E203").
//	    WithDetail("page \"product\" failed to mount").
//	    Wrap(cause)
//
//	logger.Error("navigation failed", "error", err)
//	fmt.Println(err.FormatCompact())
//	// E203: Page mount failed (page "product" failed to mount)
//
// # Categories
//
//   - config: storefront.json and environment problems
//   - routing: route table and navigation pipeline failures
//   - protocol: websocket wire message problems
//   - shop: backend rejections surfaced to the user
package errors
