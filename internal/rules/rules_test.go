package rules

import (
	"strings"
	"testing"

	"github.com/accrava/craftlint/internal/types"
)

func TestEveryPatternHasMetadata(t *testing.T) {
	seen := make(map[string]types.Pattern)
	for _, p := range types.AllPatterns {
		info := Lookup(p)
		if info.ID == string(p) && info.DocsURL == "" {
			t.Fatalf("pattern %s is missing a table entry", p)
		}
		if !strings.HasPrefix(info.ID, "template/") && !strings.HasPrefix(info.ID, "security/") {
			t.Fatalf("rule ID %q must be category-prefixed", info.ID)
		}
		if info.Confidence <= 0 || info.Confidence > 1 {
			t.Fatalf("rule %s confidence %v out of range", info.ID, info.Confidence)
		}
		if prev, dup := seen[info.ID]; dup {
			t.Fatalf("rule ID %q shared by %s and %s", info.ID, prev, p)
		}
		seen[info.ID] = p
	}
}

func TestLookupUnknownPatternFallsBack(t *testing.T) {
	info := Lookup(types.Pattern("made-up"))
	if info.ID != "made-up" {
		t.Fatalf("fallback ID should be the pattern string, got %q", info.ID)
	}
}

func TestFingerprintStability(t *testing.T) {
	f := types.Finding{
		Pattern: types.PatternMissingLimit,
		File:    "templates/index.twig",
		Line:    12,
		Message: "query has no limit",
	}
	got := Fingerprint(f)
	want := "template/missing-limit:templates/index.twig:12:query has no limit"
	if got != want {
		t.Fatalf("fingerprint format changed: %q", got)
	}
	if Fingerprint(f) != got {
		t.Fatal("fingerprint must be deterministic")
	}
}
