package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/accrava/craftlint/internal/audit"
)

func init() {
	var (
		path  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scan runs for this project",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			records, err := audit.NewAuditLog(abs).LoadHistory()
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					fmt.Println("No scan history yet.")
					return nil
				}
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			for _, r := range records {
				fmt.Printf("%s  files=%d  findings=%d (new %d, baselined %d)  %s\n",
					r.Timestamp.Format("2006-01-02 15:04:05"),
					r.FilesScanned, r.TotalFindings, r.NewFindings, r.BaselinedCount, r.Duration)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "template directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "most recent runs to show")
	rootCmd.AddCommand(cmd)
}
