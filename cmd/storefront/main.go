// Command storefront serves the device storefront and inspects its routes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	serrors "github.com/vango-dev/storefront/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "A server-driven device storefront",
		Long: `Storefront serves a single-page device shop.

Each browser tab holds a websocket session. The server owns the hash
router, mounts pages for catalog, trade-in, cart, checkout and account
routes, and streams document updates to a small JavaScript client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		routesCmd(),
		resolveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		var se *serrors.StoreError
		if errors.As(err, &se) && se.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", se.Suggestion)
		}
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
