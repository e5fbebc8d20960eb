package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/accrava/craftlint/internal/engine"
	"github.com/accrava/craftlint/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the accepted-findings baseline",
	}

	var path string
	update := &cobra.Command{
		Use:   "update",
		Short: "Accept all current findings into the baseline",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			findings, err := engine.Scan(engine.Config{Root: abs})
			if err != nil {
				return err
			}
			dest := filepath.Join(abs, report.BaselineFile)
			if err := report.SaveBaseline(dest, findings); err != nil {
				return err
			}
			fmt.Printf("Baseline updated: %d findings accepted.\n", len(findings))
			return nil
		},
	}
	update.Flags().StringVarP(&path, "path", "p", ".", "template directory")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
