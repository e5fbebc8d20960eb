package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/accrava/craftlint/internal/rules"
	"github.com/accrava/craftlint/internal/types"
)

var sevStyles = map[types.Severity]lipgloss.Style{
	types.SevHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	types.SevMed:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	types.SevLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	types.SevInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

type PrintOptions struct {
	NoColor      bool
	FilesScanned int
	ShowFixes    bool
}

// PrintTable writes findings in scan order. Findings arrive already ordered
// per file and concatenated in file order; re-sorting here would break the
// correspondence with fingerprints, so it does not.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		if opts.FilesScanned > 0 {
			fmt.Fprintf(w, "No template issues found in %d files ✅\n", opts.FilesScanned)
		} else {
			fmt.Fprintln(w, "No template issues found ✅")
		}
		return
	}
	fmt.Fprintf(w, "Findings: %d\n", len(findings))
	for _, f := range findings {
		sev := string(f.Severity)
		if !opts.NoColor {
			if style, ok := sevStyles[f.Severity]; ok {
				sev = style.Render(sev)
			}
		}
		fmt.Fprintf(w, "%-6s %-30s %s:%d  %s\n", sev, rules.Lookup(f.Pattern).ID, f.File, f.Line, f.Message)
		if f.Code != "" {
			fmt.Fprintf(w, "       > %s\n", f.Code)
		}
		if opts.ShowFixes && f.Fix != nil {
			tag := "fix"
			if !f.Fix.Safe {
				tag = "fix (unsafe)"
			}
			fmt.Fprintf(w, "       %s: %s\n", tag, f.Fix.Description)
		}
	}
}

// ShouldFail reports whether any finding reaches the fail-on severity.
func ShouldFail(findings []types.Finding, failOn string) bool {
	level := map[string]int{"info": 0, "low": 1, "medium": 2, "high": 3}
	th, ok := level[failOn]
	if !ok {
		th = 2
	}
	for _, f := range findings {
		if level[string(f.Severity)] >= th {
			return true
		}
	}
	return false
}
