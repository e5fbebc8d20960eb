package scanner

import (
	"strings"

	"github.com/accrava/craftlint/internal/types"
)

// Fix builders. Safe fixes are literal substring substitutions produced from
// the matched text itself; they never require re-parsing the line. Unsafe
// fixes are still attached for preview but callers must confirm before
// applying them.

func fixMissingLimit(src string) *types.Fix {
	if i := strings.LastIndex(src, ".all("); i >= 0 {
		return &types.Fix{
			Safe:        true,
			Search:      src,
			Replacement: src[:i] + ".limit(100)" + src[i:],
			Description: "add .limit(100) before .all()",
		}
	}
	return &types.Fix{
		Safe:        true,
		Search:      src,
		Replacement: src + ".limit(100)",
		Description: "append .limit(100) to the query",
	}
}

func fixMissingStatus(src string) *types.Fix {
	i := strings.LastIndex(src, ".all(")
	if i < 0 {
		return nil
	}
	return &types.Fix{
		Safe:        true,
		Search:      src,
		Replacement: src[:i] + ".status('live')" + src[i:],
		Description: "add .status('live') before .all()",
	}
}

func fixDeprecated(d deprecatedEntry) *types.Fix {
	if d.needle == "" || d.replacement == "" {
		return nil // tag forms need a structural rewrite
	}
	return &types.Fix{
		Safe:        true,
		Search:      d.needle,
		Replacement: d.replacement,
		Description: "replace " + d.needle + " with " + d.replacement,
	}
}

// fixRawOutput inserts an escape filter ahead of |raw, preserving the
// spacing of the matched segment. Escaping may change intended markup, so it
// is never applied automatically.
func fixRawOutput(rawSeg string) *types.Fix {
	return &types.Fix{
		Safe:        false,
		Search:      rawSeg,
		Replacement: strings.Replace(rawSeg, "raw", "escape | raw", 1),
		Description: "insert an escape filter before raw",
	}
}
