// Package fixer applies the literal search/replace suggestions attached to
// findings. Fixes are grouped per file and applied in descending line order
// so earlier replacements never shift the line numbers of ones still to come.
package fixer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/accrava/craftlint/internal/types"
)

type Options struct {
	Root        string
	ApplyUnsafe bool // unsafe fixes are skipped unless explicitly enabled
	DryRun      bool
}

type Outcome struct {
	Applied int
	Skipped int // no fix, unsafe without opt-in, or search text not found
}

// Apply edits files in place. A fix whose search text is not present on the
// flagged line is skipped, never guessed at. An empty replacement whose
// search covers the whole line deletes the line.
func Apply(findings []types.Finding, opts Options) (Outcome, error) {
	var out Outcome

	byFile := make(map[string][]types.Finding)
	var files []string
	for _, f := range findings {
		if f.Fix == nil || (!f.Fix.Safe && !opts.ApplyUnsafe) {
			out.Skipped++
			continue
		}
		if _, seen := byFile[f.File]; !seen {
			files = append(files, f.File)
		}
		byFile[f.File] = append(byFile[f.File], f)
	}
	sort.Strings(files)

	for _, rel := range files {
		path := filepath.Join(opts.Root, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return out, fmt.Errorf("read %s: %w", rel, err)
		}
		lines := strings.Split(string(data), "\n")

		fs := byFile[rel]
		sort.Slice(fs, func(i, j int) bool { return fs[i].Line > fs[j].Line })

		changed := false
		for _, f := range fs {
			idx := f.Line - 1
			if idx < 0 || idx >= len(lines) {
				out.Skipped++
				continue
			}
			line := lines[idx]
			fix := f.Fix
			switch {
			case fix.Replacement == "" && strings.TrimSpace(fix.Search) == strings.TrimSpace(line):
				lines = append(lines[:idx], lines[idx+1:]...)
			case strings.Contains(line, fix.Search):
				lines[idx] = strings.Replace(line, fix.Search, fix.Replacement, 1)
			default:
				out.Skipped++
				continue
			}
			out.Applied++
			changed = true
		}

		if changed && !opts.DryRun {
			if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
				return out, fmt.Errorf("write %s: %w", rel, err)
			}
		}
	}
	return out, nil
}
