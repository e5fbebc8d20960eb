package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/accrava/craftlint/internal/engine"
	"github.com/accrava/craftlint/internal/fixer"
)

func init() {
	var (
		path        string
		applyUnsafe bool
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply auto-fixes for fixable findings",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			findings, err := engine.Scan(engine.Config{Root: abs})
			if err != nil {
				return fmt.Errorf("scan error: %w", err)
			}
			out, err := fixer.Apply(findings, fixer.Options{
				Root:        abs,
				ApplyUnsafe: applyUnsafe,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}
			verb := "applied"
			if dryRun {
				verb = "would apply"
			}
			fmt.Printf("%s %d fixes (%d skipped)\n", verb, out.Applied, out.Skipped)
			if !applyUnsafe && out.Skipped > 0 {
				fmt.Println("unsafe fixes are skipped by default; re-run with --unsafe to include them")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "template directory")
	cmd.Flags().BoolVar(&applyUnsafe, "unsafe", false, "also apply fixes marked unsafe")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	rootCmd.AddCommand(cmd)
}
