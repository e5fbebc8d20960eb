// Package suppress builds the per-file index of inline disable comments.
//
// A Twig comment containing "craftlint-disable-next-line" suppresses findings
// on the following source line. With no tag list every rule is suppressed;
// otherwise only the comma-separated tags are. Tags may be given bare
// ("missing-limit", "n+1") or prefixed with a category ("template/n+1",
// "security/xss-raw-output").
package suppress

import (
	"regexp"
	"strings"
)

const marker = "craftlint-disable-next-line"

// markerRe captures whatever follows the marker up to the end of the comment
// or the end of the line. A malformed tag list is not an error; unparseable
// pieces are dropped, and a list that parses to nothing leaves the marker
// inert rather than widening it to suppress-all.
var markerRe = regexp.MustCompile(marker + `([^\n]*)`)

// tagAliases maps shorthand tags to pattern names.
var tagAliases = map[string]string{
	"n+1": "n-plus-one",
}

// Index maps 1-based line numbers to the set of suppressed rule tags for that
// line. A present entry with an empty set suppresses every rule.
type Index struct {
	byLine map[int]map[string]struct{}
}

// Build scans content once for disable markers. Each marker applies to the
// line after the one it appears on. Never fails: a line that does not match
// is just an ordinary comment.
func Build(content string) *Index {
	ix := &Index{byLine: make(map[int]map[string]struct{})}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		m := markerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rest := m[1]
		// cut the Twig comment closer and anything after it
		if end := strings.Index(rest, "#}"); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			// no tag list: suppress every rule on the next line
			ix.byLine[i+2] = map[string]struct{}{}
			continue
		}
		tags := make(map[string]struct{})
		for _, raw := range strings.Split(rest, ",") {
			tag := normalizeTag(raw)
			if tag != "" {
				tags[tag] = struct{}{}
			}
		}
		if len(tags) == 0 {
			// a tag list was given but nothing in it parsed; that is an
			// ordinary comment, not a suppress-all
			continue
		}
		ix.byLine[i+2] = tags // marker on line i+1 suppresses line i+2
	}
	return ix
}

// Suppressed reports whether the given pattern tag is disabled on line. The
// tag is matched bare or under either category prefix.
func (ix *Index) Suppressed(line int, tag string) bool {
	entry, ok := ix.byLine[line]
	if !ok {
		return false
	}
	if len(entry) == 0 {
		return true
	}
	tag = normalizeTag(tag)
	_, hit := entry[tag]
	return hit
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "template/")
	s = strings.TrimPrefix(s, "security/")
	if alias, ok := tagAliases[s]; ok {
		return alias
	}
	// a "tag" with spaces left in it was never a tag
	if strings.ContainsAny(s, " \t") {
		return ""
	}
	return s
}
