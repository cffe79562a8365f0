package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/internal/pages"
	"github.com/vango-dev/storefront/pkg/server"
)

func routesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List the storefront's routes in match order.

Routes marked with * need a signed-in customer. The NotFound route is
listed last and serves every path no other route matches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := server.RouteList(pages.Table())
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(routes)
			}

			protected := make(map[string]bool, len(pages.Protected))
			for _, name := range pages.Protected {
				protected[name] = true
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATTERN\tPARAMS\tTITLE")
			for _, rt := range routes {
				name, pattern := rt.Name, rt.Pattern
				if protected[name] {
					name += " *"
				}
				if rt.NotFound {
					pattern = "(fallback)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, pattern, strings.Join(rt.Params, ","), pages.Titles[rt.Name])
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")

	return cmd
}
