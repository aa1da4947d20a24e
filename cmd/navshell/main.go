package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navshell/internal/errors"

	// Registers the "postgres" driver for the SQL storage backend.
	_ "github.com/lib/pq"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "navshell",
		Short: "A minimal application shell with routing, components and storage",
		Long: `navshell serves a browser application whose navigation, rendering and
persistence run in Go.

The browser runs a thin client that forwards link clicks and back/forward
navigation over a WebSocket; the server matches the path, runs the page
handler and sends the markup back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
