package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/internal/pages"
	"github.com/vango-dev/storefront/pkg/server"
)

func resolveCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <hash>...",
		Short: "Show which route a location hash resolves to",
		Example: `  storefront resolve '#/product/pixel-9'
  storefront resolve 'item/42' '#/products?category=phones'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := pages.Table()
			var out []server.Resolution
			for _, raw := range args {
				out = append(out, server.Resolve(table, raw))
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, res := range out {
				fmt.Printf("%s\n", res.Input)
				info("path:   %s", res.Path)
				route := res.Route
				if res.NotFound {
					route += " (not found)"
				}
				info("route:  %s", route)
				if len(res.Params) > 0 {
					info("params: %s", formatMap(res.Params))
				}
				if len(res.Query) > 0 {
					info("query:  %s", formatMap(res.Query))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print resolutions as JSON")

	return cmd
}

func formatMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, " ")
}
