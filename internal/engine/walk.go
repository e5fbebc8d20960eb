package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/accrava/craftlint/internal/ignore"
)

const defaultMaxBytes = 1 << 20

var defaultExtensions = []string{".twig", ".html"}

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]struct{}{
	".git": {}, "node_modules": {}, "vendor": {}, "storage": {}, "cpresources": {},
}

// Collect enumerates eligible template files under cfg.Root, relative paths
// with forward slashes, sorted.
func Collect(cfg Config, ign ignore.Matcher) ([]string, error) {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	var out []string
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(d.Name(), exts) {
			return nil
		}
		rel, relErr := filepath.Rel(cfg.Root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ign.Match(rel) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr == nil && info.Size() > maxBytes {
			return nil
		}
		if looksBinary(p) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

// looksBinary sniffs the first 800 bytes for a NUL.
func looksBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()
	buf := make([]byte, 800)
	n, _ := f.Read(buf)
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}
