package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐┌─┐┌┬┐┌─┐┬┌─┬┌┬┐
  └─┐ │ ├─┤ │ ├┤ ├┴┐│ │
  └─┘ ┴ ┴ ┴ ┴ └─┘┴ ┴┴ ┴
`

func main() {
	if os.Getenv("NO_COLOR") != "" {
		ierrors.DisableColors()
	}

	rootCmd := &cobra.Command{
		Use:   "statekit",
		Short: "Tree-scoped shared state for Go",
		Long: `Statekit is a state management toolkit for Go.

It pairs reducer-driven stores with scope-based providers, so any
code in a provider's subtree can reach shared state without
threading it through every call. The CLI runs the sync server that
exposes stores to remote clients over WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fprintError(os.Stderr, err)
		os.Exit(1)
	}
}

// fprintError renders err to w. Coded errors get the registry's formatted
// output, with detail and fix suggestion; everything else gets a plain
// prefix.
func fprintError(w io.Writer, err error) {
	var coded *ierrors.Error
	if errors.As(err, &coded) {
		fmt.Fprint(w, coded.Format())
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// printBanner prints the statekit ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
