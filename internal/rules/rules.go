// Package rules carries the static metadata for every scanner pattern: the
// stable rule ID used by baselines and SARIF, a confidence score, and a docs
// link. The scanner itself only knows patterns; everything keyed on rule IDs
// derives from this table.
package rules

import (
	"fmt"

	"github.com/accrava/craftlint/internal/types"
)

type Info struct {
	ID         string
	Confidence float64
	DocsURL    string
}

var table = map[types.Pattern]Info{
	types.PatternNPlusOne:            {ID: "template/n-plus-one", Confidence: 0.85, DocsURL: docs("n-plus-one")},
	types.PatternMissingLimit:        {ID: "template/missing-limit", Confidence: 0.8, DocsURL: docs("missing-limit")},
	types.PatternMissingStatusFilter: {ID: "template/missing-status-filter", Confidence: 0.6, DocsURL: docs("missing-status-filter")},
	types.PatternDeprecatedAPI:       {ID: "template/deprecated-api", Confidence: 0.95, DocsURL: docs("deprecated-api")},
	types.PatternXSSRawOutput:        {ID: "security/xss-raw-output", Confidence: 0.7, DocsURL: docs("xss-raw-output")},
	types.PatternSSTIDynamicInclude:  {ID: "security/ssti-dynamic-include", Confidence: 0.75, DocsURL: docs("ssti-dynamic-include")},
	types.PatternDumpCall:            {ID: "template/dump-call", Confidence: 0.9, DocsURL: docs("dump-call")},
	types.PatternIncludeTag:          {ID: "template/include-tag", Confidence: 0.9, DocsURL: docs("include-tag")},
	types.PatternFormMissingCSRF:     {ID: "security/form-missing-csrf", Confidence: 0.8, DocsURL: docs("form-missing-csrf")},
	types.PatternMixedLoading:        {ID: "template/mixed-loading-strategy", Confidence: 0.5, DocsURL: docs("mixed-loading-strategy")},
}

func docs(slug string) string {
	return "https://craftlint.dev/rules/" + slug
}

// Lookup returns the metadata for a pattern. Unknown patterns fall back to the
// pattern string itself as the rule ID so a table gap never loses a finding.
func Lookup(p types.Pattern) Info {
	if info, ok := table[p]; ok {
		return info
	}
	return Info{ID: string(p), Confidence: 0.5}
}

// Fingerprint identifies one finding instance across runs. Baselines and SARIF
// partial fingerprints both use this exact format, so it must stay stable.
func Fingerprint(f types.Finding) string {
	return fmt.Sprintf("%s:%s:%d:%s", Lookup(f.Pattern).ID, f.File, f.Line, f.Message)
}
