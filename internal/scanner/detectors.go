package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/accrava/craftlint/internal/types"
)

// terminalLimiters bound the result set explicitly; a query ending in one of
// these never needs an added limit.
var terminalLimiters = []string{".limit(", ".one(", ".first(", ".count(", ".exists(", ".ids("}

// narrowingMethods already bound the result set's cardinality or scope, so an
// explicit limit is unnecessary.
var narrowingMethods = []string{
	".id(", ".slug(", ".relatedTo(", ".siteId(", ".level(", ".uri(", ".search(",
	".postDate(", ".dateCreated(", ".dateUpdated(", ".ancestorOf(", ".descendantOf(",
	".type(", ".group(", ".fixedOrder(", ".kind(", ".status(",
}

// scalarFields are plain element properties; accessing them inside a loop is
// not a relation query.
var scalarFields = map[string]struct{}{
	"id": {}, "title": {}, "slug": {}, "url": {}, "uri": {},
	"status": {}, "postDate": {}, "dateCreated": {}, "dateUpdated": {},
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// checkQueryBounds runs once per loop open against the loop's resolved query
// source. Both findings attribute to the query definition line, which is also
// where suppression is looked up.
func (s *fileScan) checkQueryBounds() {
	lc := s.loop
	if !lc.active || !isQueryOrigin(lc.querySource) {
		return
	}
	src := strings.TrimSpace(lc.querySource)

	if !containsAny(src, terminalLimiters) && !containsAny(src, narrowingMethods) &&
		!s.suppressed(lc.queryLine, types.PatternMissingLimit) {
		s.emit(types.Finding{
			Severity:   types.SevMed,
			Pattern:    types.PatternMissingLimit,
			Line:       lc.queryLine,
			Message:    fmt.Sprintf("query '%s' has no limit and no narrowing criteria; it can fetch every matching element", src),
			Suggestion: "add .limit(n) or narrow the query (.id(), .relatedTo(), .section(), ...)",
			Code:       src,
			Fix:        fixMissingLimit(src),
		})
	}

	if strings.Contains(src, ".all(") && !strings.Contains(src, ".status(") &&
		!s.suppressed(lc.queryLine, types.PatternMissingStatusFilter) {
		s.emit(types.Finding{
			Severity:   types.SevLow,
			Pattern:    types.PatternMissingStatusFilter,
			Line:       lc.queryLine,
			Message:    fmt.Sprintf("query '%s' fetches all elements without a status filter", src),
			Suggestion: "add .status('live') unless drafts and disabled elements are wanted",
			Code:       src,
			Fix:        fixMissingStatus(src),
		})
	}
}

// checkNPlusOne flags relation fetches per loop iteration. One finding per
// (definition line, loop variable, field, access method) tuple per file.
func (s *fileScan) checkNPlusOne(line string, n int) {
	if !s.loop.active || s.loop.hasEagerLoading || s.loopRe == nil {
		return
	}
	for _, m := range s.loopRe.FindAllStringSubmatch(line, -1) {
		field, method := m[1], m[2]
		if _, scalar := scalarFields[field]; scalar {
			continue
		}
		if strings.Contains(line, s.loop.variable+"."+field+".eagerly(") {
			continue
		}
		if s.suppressed(n, types.PatternNPlusOne) {
			continue
		}
		key := fmt.Sprintf("%d|%s|%s|%s", s.loop.queryLine, s.loop.variable, field, method)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		s.emit(types.Finding{
			Severity:   types.SevHigh,
			Pattern:    types.PatternNPlusOne,
			Line:       n,
			Message:    fmt.Sprintf("'%s.%s.%s()' runs one query per loop iteration (N+1)", s.loop.variable, field, method),
			Suggestion: fmt.Sprintf("eager-load the relation with .with(['%s']) on the loop query, or use %s.%s.eagerly() inline", field, s.loop.variable, field),
			Code:       strings.TrimSpace(line),
		})
	}
}

type deprecatedEntry struct {
	needle      string         // literal signature, "" when re is set
	re          *regexp.Regexp // tag-form signature
	replacement string         // literal replacement; "" means no safe rewrite
	hint        string
}

var deprecatedAPIs = []deprecatedEntry{
	{needle: "craft.request.", replacement: "craft.app.request.", hint: "craft.request was removed in Craft 3"},
	{needle: "craft.session.", replacement: "craft.app.session.", hint: "craft.session was removed in Craft 3"},
	{needle: "craft.config.", replacement: "craft.app.config.general.", hint: "craft.config was removed in Craft 3"},
	{needle: "craft.categoryGroups", replacement: "craft.app.categories", hint: "craft.categoryGroups was removed in Craft 3"},
	{needle: "getCsrfInput()", replacement: "csrfInput()", hint: "getCsrfInput() was replaced by csrfInput()"},
	{re: regexp.MustCompile(`\{%-?\s*includeCssFile\b`), hint: "use the {% css %} tag instead of includeCssFile"},
	{re: regexp.MustCompile(`\{%-?\s*includeJsFile\b`), hint: "use the {% js %} tag instead of includeJsFile"},
	{re: regexp.MustCompile(`\{%-?\s*includeCss\b`), hint: "use the {% css %} tag instead of includeCss"},
	{re: regexp.MustCompile(`\{%-?\s*includeJs\b`), hint: "use the {% js %} tag instead of includeJs"},
}

func (s *fileScan) checkDeprecatedAPI(line string, n int) {
	if s.suppressed(n, types.PatternDeprecatedAPI) {
		return
	}
	for _, d := range deprecatedAPIs {
		matched := ""
		switch {
		case d.needle != "" && strings.Contains(line, d.needle):
			matched = d.needle
		case d.re != nil && d.re.MatchString(line):
			matched = d.re.FindString(line)
		default:
			continue
		}
		s.emit(types.Finding{
			Severity:   types.SevMed,
			Pattern:    types.PatternDeprecatedAPI,
			Line:       n,
			Message:    fmt.Sprintf("deprecated API '%s'", strings.TrimSpace(matched)),
			Suggestion: d.hint,
			Code:       strings.TrimSpace(line),
			Fix:        fixDeprecated(d),
		})
	}
}

var (
	rawOutRe    = regexp.MustCompile(`\{\{([^}]*?)(\|\s*raw\b)\s*\}\}`)
	sanitizerRe = regexp.MustCompile(`\|\s*(e|escape|purify)\b`)
)

// requestSources mark expressions derived from the incoming request.
var requestSources = []string{"craft.app.request", "craft.request", ".getQueryParam(", ".getBodyParam("}

func (s *fileScan) checkRawOutput(line string, n int) {
	if s.suppressed(n, types.PatternXSSRawOutput) {
		return
	}
	for _, m := range rawOutRe.FindAllStringSubmatch(line, -1) {
		expr, rawSeg := m[1], m[2]
		if containsAny(expr, requestSources) {
			s.emit(types.Finding{
				Severity:   types.SevHigh,
				Pattern:    types.PatternXSSRawOutput,
				Line:       n,
				Message:    "request-derived value rendered with |raw (reflected XSS)",
				Suggestion: "drop |raw, or sanitize with |purify before output",
				Code:       strings.TrimSpace(m[0]),
				Fix:        fixRawOutput(rawSeg),
			})
			continue
		}
		if sanitizerRe.MatchString(expr) {
			continue
		}
		s.emit(types.Finding{
			Severity:   types.SevMed,
			Pattern:    types.PatternXSSRawOutput,
			Line:       n,
			Message:    "value rendered with |raw bypasses output escaping",
			Suggestion: "remove |raw or apply an escaping/sanitizing filter first",
			Code:       strings.TrimSpace(m[0]),
			Fix:        fixRawOutput(rawSeg),
		})
	}
}

var (
	includeTargetRe    = regexp.MustCompile(`\{%-?\s*include\s+([^\s%]+)`)
	templateFromString = "template_from_string("
	sourceCallRe       = regexp.MustCompile(`\bsource\(\s*([^)]*)`)
)

func quotedLiteral(s string) bool {
	return strings.HasPrefix(s, "'") || strings.HasPrefix(s, `"`)
}

func (s *fileScan) checkDynamicInclude(line string, n int) {
	if s.suppressed(n, types.PatternSSTIDynamicInclude) {
		return
	}
	if m := includeTargetRe.FindStringSubmatch(line); m != nil && !quotedLiteral(m[1]) {
		s.emit(types.Finding{
			Severity:   types.SevHigh,
			Pattern:    types.PatternSSTIDynamicInclude,
			Line:       n,
			Message:    fmt.Sprintf("include target '%s' is not a literal template path", m[1]),
			Suggestion: "include a fixed template path; never build it from user input",
			Code:       strings.TrimSpace(line),
		})
	}
	if strings.Contains(line, templateFromString) {
		s.emit(types.Finding{
			Severity:   types.SevHigh,
			Pattern:    types.PatternSSTIDynamicInclude,
			Line:       n,
			Message:    "template_from_string() compiles its argument as Twig (SSTI if attacker-influenced)",
			Suggestion: "render trusted templates only; avoid template_from_string with dynamic input",
			Code:       strings.TrimSpace(line),
		})
	}
	if m := sourceCallRe.FindStringSubmatch(line); m != nil && !quotedLiteral(strings.TrimSpace(m[1])) {
		s.emit(types.Finding{
			Severity:   types.SevHigh,
			Pattern:    types.PatternSSTIDynamicInclude,
			Line:       n,
			Message:    "source() with a non-literal argument can expose arbitrary template source",
			Suggestion: "pass a fixed template path to source()",
			Code:       strings.TrimSpace(line),
		})
	}
}

var dumpCalls = []*regexp.Regexp{
	regexp.MustCompile(`\bdump\(`),
	regexp.MustCompile(`(^|[^\w])dd\(`),
	regexp.MustCompile(`\{%-?\s*dd\b`),
}

func (s *fileScan) checkDumpCall(line string, n int) {
	if s.suppressed(n, types.PatternDumpCall) {
		return
	}
	for _, re := range dumpCalls {
		if !re.MatchString(line) {
			continue
		}
		s.emit(types.Finding{
			Severity:   types.SevMed,
			Pattern:    types.PatternDumpCall,
			Line:       n,
			Message:    "debug output call left in template",
			Suggestion: "remove dump/dd calls before deploying",
			Code:       strings.TrimSpace(line),
			Fix: &types.Fix{
				Safe:        false,
				Search:      line,
				Replacement: "",
				Description: "delete the line",
			},
		})
		return // first match per line only
	}
}

// staticIncludeRe matches only the simple literal form; anything carrying
// `with` or `ignore missing` is left alone.
var staticIncludeRe = regexp.MustCompile(`\{%-?\s*include\s+(['"][^'"]+['"])\s*-?%\}`)

func (s *fileScan) checkIncludeTag(line string, n int) {
	if s.suppressed(n, types.PatternIncludeTag) {
		return
	}
	m := staticIncludeRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	s.emit(types.Finding{
		Severity:   types.SevLow,
		Pattern:    types.PatternIncludeTag,
		Line:       n,
		Message:    fmt.Sprintf("include tag '%s' can be written as the include() expression", m[0]),
		Suggestion: "prefer {{ include(...) }} over the {% include %} tag",
		Code:       strings.TrimSpace(line),
		Fix: &types.Fix{
			Safe:        true,
			Search:      m[0],
			Replacement: "{{ include(" + m[1] + ") }}",
			Description: "rewrite to the include() expression form",
		},
	})
}

// csrfTokens are the ways a template typically injects the anti-forgery token.
var csrfTokens = []string{"csrfInput(", "craft.app.request.csrfToken", "CRAFT_CSRF_TOKEN"}

func (s *fileScan) handleForm(line string, n int) {
	if !s.form.open {
		if m := formOpen.FindString(line); m != "" {
			s.form = formContext{
				open:      true,
				startLine: n,
				startText: m,
				isGet:     methodGet.MatchString(m),
			}
		}
	}
	if s.form.open && containsAny(line, csrfTokens) {
		s.form.sawCSRF = true
	}
	if s.form.open && formClose.MatchString(line) {
		if !s.form.isGet && !s.form.sawCSRF &&
			!s.suppressed(s.form.startLine, types.PatternFormMissingCSRF) {
			s.emit(types.Finding{
				Severity:   types.SevHigh,
				Pattern:    types.PatternFormMissingCSRF,
				Line:       s.form.startLine,
				Message:    "form submits without a CSRF token",
				Suggestion: "add {{ csrfInput() }} inside the form",
				Code:       strings.TrimSpace(s.form.startText),
			})
		}
		s.form = formContext{}
	}
}

// checkMixedLoading runs once at end-of-file.
func (s *fileScan) checkMixedLoading() {
	if !s.loading.usesWith || !s.loading.usesEagerly {
		return
	}
	line := 1
	if len(s.loading.withLines) > 0 {
		line = s.loading.withLines[0]
	}
	if s.suppressed(line, types.PatternMixedLoading) {
		return
	}
	s.emit(types.Finding{
		Severity:   types.SevInfo,
		Pattern:    types.PatternMixedLoading,
		Line:       line,
		Message:    "file mixes .with() eager loading and .eagerly() lazy eager loading",
		Suggestion: "pick one eager-loading strategy per template for predictable query counts",
		Code:       s.lineText(line),
	})
}
