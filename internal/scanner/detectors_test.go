package scanner

import (
	"strings"
	"testing"

	"github.com/accrava/craftlint/internal/types"
)

func TestRawOutput_RequestDerivedIsHigh(t *testing.T) {
	fs := scanString(t, `{{ craft.app.request.getQueryParam('q') | raw }}`)
	f := findPattern(fs, types.PatternXSSRawOutput)
	if f == nil {
		t.Fatal("expected xss-raw-output")
	}
	if f.Severity != types.SevHigh {
		t.Fatalf("request-derived raw output should be high, got %s", f.Severity)
	}
	if f.Fix == nil || f.Fix.Safe {
		t.Fatal("raw-output fix must be present and unsafe")
	}
}

func TestRawOutput_PlainIsMedium(t *testing.T) {
	fs := scanString(t, `{{ entry.body | raw }}`)
	f := findPattern(fs, types.PatternXSSRawOutput)
	if f == nil {
		t.Fatal("expected xss-raw-output")
	}
	if f.Severity != types.SevMed {
		t.Fatalf("expected medium, got %s", f.Severity)
	}
}

func TestRawOutput_SanitizedIsClean(t *testing.T) {
	for _, line := range []string{
		`{{ userBio | purify | raw }}`,
		`{{ userBio | escape | raw }}`,
		`{{ userBio | e | raw }}`,
	} {
		if n := countPattern(scanString(t, line), types.PatternXSSRawOutput); n != 0 {
			t.Fatalf("%s: sanitized output flagged %d times", line, n)
		}
	}
}

func TestRawOutput_FixInsertsEscape(t *testing.T) {
	line := `{{ entry.body|raw }}`
	f := findPattern(scanString(t, line), types.PatternXSSRawOutput)
	if f == nil {
		t.Fatal("expected finding")
	}
	if !strings.Contains(line, f.Fix.Search) {
		t.Fatalf("fix search %q not in line", f.Fix.Search)
	}
	fixed := strings.Replace(line, f.Fix.Search, f.Fix.Replacement, 1)
	if !strings.Contains(fixed, "escape") || !strings.Contains(fixed, "raw") {
		t.Fatalf("unexpected fixed line %q", fixed)
	}
}

func TestDynamicInclude_Variants(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{`{% include entry.templatePath %}`, 1},
		{`{% include '_partials/nav' %}`, 0},
		{`{{ template_from_string(entry.body) }}`, 1},
		{`{{ source(tplName) }}`, 1},
		{`{{ source('sitemap.twig') }}`, 0},
	}
	for _, c := range cases {
		got := countPattern(scanString(t, c.line), types.PatternSSTIDynamicInclude)
		if got != c.want {
			t.Fatalf("%s: expected %d ssti findings, got %d", c.line, c.want, got)
		}
	}
}

func TestDumpCall_FirstMatchPerLine(t *testing.T) {
	fs := scanString(t, `{{ dump(dd(entry)) }}`)
	if got := countPattern(fs, types.PatternDumpCall); got != 1 {
		t.Fatalf("expected 1 dump-call per line, got %d", got)
	}
	f := findPattern(fs, types.PatternDumpCall)
	if f.Fix == nil || f.Fix.Safe || f.Fix.Replacement != "" {
		t.Fatalf("dump fix should be an unsafe line deletion, got %+v", f.Fix)
	}
}

func TestDumpCall_TagAndCallForms(t *testing.T) {
	for _, line := range []string{
		`{{ dump(entry) }}`,
		`{{ dd(entry) }}`,
		`{% dd entry %}`,
	} {
		if countPattern(scanString(t, line), types.PatternDumpCall) != 1 {
			t.Fatalf("%s: expected dump-call finding", line)
		}
	}
	// no boundary match inside identifiers
	if countPattern(scanString(t, `{{ items.add(entry) }}`), types.PatternDumpCall) != 0 {
		t.Fatal("add() must not match dd(")
	}
}

func TestDeprecatedAPI_LiteralReplacement(t *testing.T) {
	fs := scanString(t, `{{ craft.request.getParam('id') }}`)
	f := findPattern(fs, types.PatternDeprecatedAPI)
	if f == nil {
		t.Fatal("expected deprecated-api")
	}
	if f.Fix == nil || !f.Fix.Safe {
		t.Fatal("craft.request rewrite should be a safe fix")
	}
	if f.Fix.Search != "craft.request." || f.Fix.Replacement != "craft.app.request." {
		t.Fatalf("unexpected fix %+v", f.Fix)
	}
}

func TestDeprecatedAPI_TagFormHasNoFix(t *testing.T) {
	fs := scanString(t, `{% includeCssFile "css/main.css" %}`)
	f := findPattern(fs, types.PatternDeprecatedAPI)
	if f == nil {
		t.Fatal("expected deprecated-api for includeCssFile")
	}
	if f.Fix != nil {
		t.Fatalf("structural tag rewrite must not carry an auto-fix, got %+v", f.Fix)
	}
}

func TestIncludeTag_SimpleFormRewritten(t *testing.T) {
	fs := scanString(t, `{% include '_partials/nav' %}`)
	f := findPattern(fs, types.PatternIncludeTag)
	if f == nil {
		t.Fatal("expected include-tag")
	}
	if f.Fix == nil || !f.Fix.Safe {
		t.Fatal("include-tag fix should be safe")
	}
	if f.Fix.Replacement != `{{ include('_partials/nav') }}` {
		t.Fatalf("unexpected replacement %q", f.Fix.Replacement)
	}
}

func TestIncludeTag_ArgumentFormsLeftAlone(t *testing.T) {
	fs := scanString(t, `{% include '_partials/nav' with { active: true } %}`)
	if len(fs) != 0 {
		t.Fatalf("include with arguments should produce no findings, got %v", patterns(fs))
	}
}

func TestQueryTracker_ChainAndOrigin(t *testing.T) {
	tr := newQueryTracker()
	tr.track("q", "craft.entries().section('news')", 3)
	tr.track("q2", "q.relatedTo(cat)", 5)
	tr.track("junk", "now|date('Y')", 6)

	qa, ok := tr.resolve("q2")
	if !ok {
		t.Fatal("q2 should resolve")
	}
	if qa.source != "craft.entries().section('news').relatedTo(cat)" {
		t.Fatalf("unexpected chained source %q", qa.source)
	}
	if qa.line != 5 {
		t.Fatalf("chain attributes to the new assignment line, got %d", qa.line)
	}
	if _, ok := tr.resolve("junk"); ok {
		t.Fatal("non-query assignment must not be tracked")
	}
}

func TestLoopContext_NestedLoopOverwrites(t *testing.T) {
	// the inner loop replaces the outer context; accesses after endfor are
	// not re-attributed to the outer loop
	fs := scanString(t, `{% for entry in craft.entries().section('a').all() %}
  {% for block in entry.matrixField.all() %}
    {{ block.image.one() }}
  {% endfor %}
  {{ entry.author.one() }}
{% endfor %}
`)
	// line 3 flags against the inner loop; line 5 comes after endfor
	// cleared everything, so nothing fires there
	for _, f := range fs {
		if f.Pattern == types.PatternNPlusOne && f.Line == 5 {
			t.Fatalf("outer loop context should not survive the inner endfor: %+v", f)
		}
	}
}
