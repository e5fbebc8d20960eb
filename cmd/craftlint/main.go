package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "craftlint",
	Short: "Static analysis for Craft CMS Twig templates",
	Long: `craftlint scans Twig templates for structural anti-patterns:
N+1 query fan-out, unbounded result sets, deprecated APIs, raw output,
dynamic includes, leftover debug calls and forms without CSRF tokens.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}
