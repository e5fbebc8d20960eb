package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/accrava/craftlint/internal/types"
)

func sampleFindings() []types.Finding {
	return []types.Finding{
		{Pattern: types.PatternMissingLimit, Severity: types.SevMed, File: "a.twig", Line: 3, Message: "no limit"},
		{Pattern: types.PatternDumpCall, Severity: types.SevMed, File: "b.twig", Line: 7, Message: "debug output"},
	}
}

func TestBaselineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaselineFile)
	fs := sampleFindings()

	if err := SaveBaseline(path, fs); err != nil {
		t.Fatalf("SaveBaseline: %v", err)
	}
	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatalf("LoadBaseline: %v", err)
	}
	if len(base.Items) != 2 {
		t.Fatalf("expected 2 baseline items, got %d", len(base.Items))
	}

	if remaining := FilterNewFindings(fs, base); len(remaining) != 0 {
		t.Fatalf("baselined findings leaked through: %v", remaining)
	}

	fresh := types.Finding{Pattern: types.PatternXSSRawOutput, File: "c.twig", Line: 1, Message: "raw"}
	remaining := FilterNewFindings(append(fs, fresh), base)
	if len(remaining) != 1 || remaining[0].File != "c.twig" {
		t.Fatalf("expected only the new finding, got %v", remaining)
	}
}

func TestLoadBaseline_MissingFile(t *testing.T) {
	base, err := LoadBaseline(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("missing baseline should error")
	}
	// callers fall back to the empty baseline; it must be usable
	if out := FilterNewFindings(sampleFindings(), base); len(out) != 2 {
		t.Fatalf("empty baseline should pass everything, got %d", len(out))
	}
}

func TestLoadBaseline_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaselineFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBaseline(path); err == nil {
		t.Fatal("malformed baseline should error")
	}
}

func TestSaveBaseline_ContentIsFingerprintKeyed(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaselineFile)
	if err := SaveBaseline(path, sampleFindings()); err != nil {
		t.Fatalf("SaveBaseline: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "template/missing-limit:a.twig:3:no limit") {
		t.Fatalf("baseline file missing fingerprint key:\n%s", raw)
	}
}
