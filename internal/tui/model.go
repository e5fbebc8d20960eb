// Package tui is the interactive review mode: step through findings that
// carry a fix and apply or skip each one. Unsafe fixes are marked and need
// their own keypress so they are never applied by reflex.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/accrava/craftlint/internal/fixer"
	"github.com/accrava/craftlint/internal/rules"
	"github.com/accrava/craftlint/internal/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	unsafeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

type statusMsg string

type Model struct {
	root     string
	findings []types.Finding // only findings carrying a fix
	cursor   int
	applied  map[int]bool
	skipped  map[int]bool
	status   string
	done     bool
}

func NewModel(root string, findings []types.Finding) Model {
	var fixable []types.Finding
	for _, f := range findings {
		if f.Fix != nil {
			fixable = append(fixable, f)
		}
	}
	return Model{
		root:     root,
		findings: fixable,
		applied:  make(map[int]bool),
		skipped:  make(map[int]bool),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.findings)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "s":
			if len(m.findings) > 0 {
				m.skipped[m.cursor] = true
				m.advance()
			}
		case "a":
			return m.apply(false)
		case "u":
			return m.apply(true)
		}
	}
	return m, nil
}

// apply runs the fixer for the selected finding only. Unsafe fixes need the
// dedicated key.
func (m Model) apply(allowUnsafe bool) (tea.Model, tea.Cmd) {
	if len(m.findings) == 0 || m.applied[m.cursor] {
		return m, nil
	}
	f := m.findings[m.cursor]
	if !f.Fix.Safe && !allowUnsafe {
		m.status = "unsafe fix: press u to confirm"
		return m, nil
	}
	out, err := fixer.Apply([]types.Finding{f}, fixer.Options{Root: m.root, ApplyUnsafe: allowUnsafe})
	if err != nil {
		m.status = fmt.Sprintf("fix failed: %v", err)
		return m, nil
	}
	if out.Applied == 0 {
		m.status = "fix not applicable (line changed since scan?)"
		m.skipped[m.cursor] = true
	} else {
		m.applied[m.cursor] = true
		m.status = "applied"
	}
	m.advance()
	return m, nil
}

func (m *Model) advance() {
	if m.cursor < len(m.findings)-1 {
		m.cursor++
	}
}

func (m Model) View() string {
	if len(m.findings) == 0 {
		return "Nothing to fix.\n\npress q to quit\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("craftlint fix review  %d/%d", m.cursor+1, len(m.findings))))
	b.WriteString("\n\n")

	f := m.findings[m.cursor]
	b.WriteString(fmt.Sprintf("%s  %s:%d\n", rules.Lookup(f.Pattern).ID, f.File, f.Line))
	b.WriteString(f.Message + "\n")
	b.WriteString(dimStyle.Render("  "+f.Code) + "\n\n")
	if f.Fix.Safe {
		b.WriteString("fix: " + f.Fix.Description + "\n")
	} else {
		b.WriteString(unsafeStyle.Render("unsafe fix: ") + f.Fix.Description + "\n")
	}
	switch {
	case m.applied[m.cursor]:
		b.WriteString(okStyle.Render("applied") + "\n")
	case m.skipped[m.cursor]:
		b.WriteString(dimStyle.Render("skipped") + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString(dimStyle.Render("\na apply  u apply unsafe  s skip  j/k move  q quit\n"))
	return b.String()
}

// AppliedCount reports how many fixes were applied during the session.
func (m Model) AppliedCount() int { return len(m.applied) }
