// Package scanner is the per-file analysis engine. Scan makes exactly one
// forward pass over the file's lines, threading all mutable state (query
// tracker, loop/form context, loading summary) through a single fileScan
// value, so files can be scanned in parallel with nothing shared.
package scanner

import (
	"regexp"
	"strings"

	"github.com/accrava/craftlint/internal/suppress"
	"github.com/accrava/craftlint/internal/types"
)

// Category is fixed for every finding this engine emits.
const Category = "template"

var (
	setRe     = regexp.MustCompile(`\{%-?\s*set\s+(\w+)\s*=\s*(.+?)\s*-?%\}`)
	forRe     = regexp.MustCompile(`\{%-?\s*for\s+(\w+)(?:\s*,\s*\w+)?\s+in\s+(.+?)\s*-?%\}`)
	endforRe  = regexp.MustCompile(`\{%-?\s*endfor\s*-?%\}`)
	formOpen  = regexp.MustCompile(`(?i)<form\b[^>]*`)
	formClose = regexp.MustCompile(`(?i)</form>`)
	methodGet = regexp.MustCompile(`(?i)method\s*=\s*["']?get\b`)
)

type fileScan struct {
	file     string
	lines    []string
	sup      *suppress.Index
	queries  *queryTracker
	loop     loopContext
	loopRe   *regexp.Regexp // relation-access matcher for the active loop variable
	form     formContext
	loading  loadingSummary
	seen     map[string]struct{} // N+1 dedup, file lifetime
	findings []types.Finding
}

// Scan analyzes one template file and returns its findings in discovery
// order. Identical content always yields an identical, identically-ordered
// list; fingerprinting and baseline suppression depend on that.
func Scan(file string, content []byte) []types.Finding {
	text := string(content)
	s := &fileScan{
		file:    file,
		lines:   strings.Split(text, "\n"),
		sup:     suppress.Build(text),
		queries: newQueryTracker(),
		seen:    make(map[string]struct{}),
	}

	for i, line := range s.lines {
		n := i + 1
		s.trackAssignments(line, n)
		if endforRe.MatchString(line) {
			s.loop = loopContext{}
			s.loopRe = nil
		}
		if m := forRe.FindStringSubmatch(line); m != nil {
			s.openLoop(m[1], m[2], n)
			s.checkQueryBounds()
		}
		if strings.Contains(line, ".eagerly(") {
			s.loading.usesEagerly = true
			s.loading.eagerlyLines = append(s.loading.eagerlyLines, n)
		}

		s.checkNPlusOne(line, n)
		s.checkDeprecatedAPI(line, n)
		s.checkRawOutput(line, n)
		s.checkDynamicInclude(line, n)
		s.checkDumpCall(line, n)
		s.checkIncludeTag(line, n)
		s.handleForm(line, n)
	}

	s.checkMixedLoading()
	return s.findings
}

func (s *fileScan) trackAssignments(line string, n int) {
	for _, m := range setRe.FindAllStringSubmatch(line, -1) {
		s.queries.track(m[1], m[2], n)
	}
}

func (s *fileScan) openLoop(variable, iterable string, n int) {
	src, defLine := iterable, n
	if qa, ok := s.queries.resolve(iterable); ok {
		src, defLine = qa.source, qa.line
	} else if dot := strings.Index(iterable, "."); dot > 0 && isIdent(iterable[:dot]) {
		if qa, ok := s.queries.resolve(iterable[:dot]); ok {
			src, defLine = qa.source+iterable[dot:], qa.line
		}
	}

	eager := strings.Contains(src, ".with(")
	if eager {
		s.loading.usesWith = true
		s.loading.withLines = append(s.loading.withLines, n)
	}
	s.loop = loopContext{
		active:          true,
		startLine:       n,
		variable:        variable,
		querySource:     src,
		queryLine:       defLine,
		hasEagerLoading: eager,
	}
	s.loopRe = regexp.MustCompile(`\b` + regexp.QuoteMeta(variable) + `\.(\w+)\.(one|all|first|last)\(`)
}

func (s *fileScan) suppressed(line int, p types.Pattern) bool {
	return s.sup.Suppressed(line, string(p))
}

func (s *fileScan) lineText(n int) string {
	if n >= 1 && n <= len(s.lines) {
		return strings.TrimSpace(s.lines[n-1])
	}
	return ""
}

func (s *fileScan) emit(f types.Finding) {
	f.Category = Category
	f.File = s.file
	s.findings = append(s.findings, f)
}
