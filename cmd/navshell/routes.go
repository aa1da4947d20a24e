package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navshell/internal/app"
	"github.com/vango-dev/navshell/pkg/router"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table and menus",
		Long: `Print the application's routes in match order, followed by the menu
a guest and a signed-in user would see.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Offline()
			if err != nil {
				return err
			}
			defer a.Close()
			return printRoutes(cmd.OutOrStdout(), a.Router())
		},
	}
}

func printRoutes(out io.Writer, r *router.Router) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "#\tPATTERN\tPARAMS")
	for i, pattern := range r.Routes() {
		fmt.Fprintf(w, "%d\t%s\t%v\n", i+1, pattern, router.ParamNames(pattern))
	}
	fmt.Fprintln(w)

	for _, authenticated := range []bool{false, true} {
		label := "guest"
		if authenticated {
			label = "signed in"
		}
		fmt.Fprintf(w, "MENU (%s)\t\t\n", label)
		for _, d := range r.FilterRoutesByAuth(authenticated) {
			fmt.Fprintf(w, "\t%s\t%s\n", d.Name, d.Path)
		}
	}
	return w.Flush()
}
