package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/accrava/craftlint/internal/types"
)

// Run starts the review session. Refuses to start without a terminal so
// piped invocations fail fast instead of hanging.
func Run(root string, findings []types.Finding) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(NewModel(root, findings))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		fmt.Printf("%d fixes applied\n", m.AppliedCount())
	}
	return nil
}
