// Package ignore matches paths against the project's .craftlintignore file,
// which uses gitignore pattern syntax.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const FileName = ".craftlintignore"

type Matcher struct{ ps []gitignore.Pattern }

// Load reads an ignore file. A missing file is not an error; it just means
// nothing is ignored.
func Load(path string) (Matcher, error) {
	var m Matcher
	data, err := os.ReadFile(path)
	if err != nil {
		return m, nil
	}
	var ps []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	m.ps = ps
	return m, nil
}

// LoadRoot loads the ignore file at the scan root.
func LoadRoot(root string) (Matcher, error) {
	return Load(filepath.Join(root, FileName))
}

// Match reports whether the relative path is ignored.
func (m Matcher) Match(p string) bool {
	for _, pat := range m.ps {
		if pat.Match(strings.Split(filepath.ToSlash(p), "/"), false) == gitignore.Exclude {
			return true
		}
	}
	return false
}
