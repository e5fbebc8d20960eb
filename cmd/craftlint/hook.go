package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage git hooks",
	}
	rootCmd.AddCommand(cmd)

	install := &cobra.Command{
		Use:   "install",
		Short: "Install a pre-commit hook that runs craftlint",
		RunE: func(_ *cobra.Command, _ []string) error {
			hookDir := filepath.Join(".git", "hooks")
			if _, err := os.Stat(hookDir); os.IsNotExist(err) {
				return fmt.Errorf("not a git repository (missing .git/hooks)")
			}
			hookPath := filepath.Join(hookDir, "pre-commit")
			content := "#!/bin/sh\n\ncraftlint scan --fail-on high\n"
			if err := os.WriteFile(hookPath, []byte(content), 0755); err != nil {
				return err
			}
			fmt.Println("Installed pre-commit hook -> .git/hooks/pre-commit")
			return nil
		},
	}
	cmd.AddCommand(install)
}
