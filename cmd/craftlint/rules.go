package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accrava/craftlint/internal/rules"
	"github.com/accrava/craftlint/internal/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rules and their metadata",
		Run: func(_ *cobra.Command, _ []string) {
			for _, p := range types.AllPatterns {
				info := rules.Lookup(p)
				fmt.Printf("%-32s confidence=%.2f  %s\n", info.ID, info.Confidence, info.DocsURL)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
