package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "GitHub Action helpers",
	}
	rootCmd.AddCommand(cmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a GitHub Action workflow for craftlint",
		RunE: func(_ *cobra.Command, _ []string) error {
			dir := filepath.Join(".github", "workflows")
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			path := filepath.Join(dir, "craftlint.yml")
			content := `name: craftlint
on: [push, pull_request]
jobs:
  lint:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version: 'stable'
      - run: go install github.com/accrava/craftlint/cmd/craftlint@latest
      - run: craftlint scan --sarif -p templates > craftlint.sarif.json
      - uses: github/codeql-action/upload-sarif@v3
        with:
          sarif_file: craftlint.sarif.json
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
			fmt.Println("Wrote", path)
			return nil
		},
	}
	cmd.AddCommand(initCmd)
}
