package types

type Severity string

const (
	SevInfo Severity = "info"
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Pattern is the closed set of things the template scanner can flag.
type Pattern string

const (
	PatternNPlusOne            Pattern = "n-plus-one"
	PatternMissingLimit        Pattern = "missing-limit"
	PatternMissingStatusFilter Pattern = "missing-status-filter"
	PatternDeprecatedAPI       Pattern = "deprecated-api"
	PatternXSSRawOutput        Pattern = "xss-raw-output"
	PatternSSTIDynamicInclude  Pattern = "ssti-dynamic-include"
	PatternDumpCall            Pattern = "dump-call"
	PatternIncludeTag          Pattern = "include-tag"
	PatternFormMissingCSRF     Pattern = "form-missing-csrf"
	PatternMixedLoading        Pattern = "mixed-loading-strategy"
)

// AllPatterns lists every pattern in a fixed order. Rule listing and the SARIF
// rule table iterate this so output ordering stays stable.
var AllPatterns = []Pattern{
	PatternNPlusOne,
	PatternMissingLimit,
	PatternMissingStatusFilter,
	PatternDeprecatedAPI,
	PatternXSSRawOutput,
	PatternSSTIDynamicInclude,
	PatternDumpCall,
	PatternIncludeTag,
	PatternFormMissingCSRF,
	PatternMixedLoading,
}

// Fix is a literal search/replace suggestion attached to a finding. Safe fixes
// are mechanical substring substitutions; unsafe ones may change behavior and
// need explicit confirmation before being applied. An empty Replacement with
// Search covering the whole line means "delete the line".
type Fix struct {
	Safe        bool   `json:"safe"`
	Search      string `json:"search"`
	Replacement string `json:"replacement"`
	Description string `json:"description"`
}

type Finding struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Pattern    Pattern  `json:"pattern"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
	Code       string   `json:"code"`
	Fix        *Fix     `json:"fix,omitempty"`
}
