package fixer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/accrava/craftlint/internal/types"
)

func writeTemplate(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func readBack(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(data)
}

func safeFix(search, replacement string) *types.Fix {
	return &types.Fix{Safe: true, Search: search, Replacement: replacement}
}

func TestApply_ReplacesOnFlaggedLine(t *testing.T) {
	root := t.TempDir()
	p := writeTemplate(t, root, "a.twig", "{{ craft.request.getParam('id') }}\n")

	out, err := Apply([]types.Finding{{
		File: "a.twig", Line: 1,
		Fix: safeFix("craft.request.", "craft.app.request."),
	}}, Options{Root: root})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Applied != 1 || out.Skipped != 0 {
		t.Fatalf("outcome %+v", out)
	}
	if got := readBack(t, p); !strings.Contains(got, "craft.app.request.getParam") {
		t.Fatalf("fix not applied: %q", got)
	}
}

func TestApply_DescendingOrderKeepsLineNumbersValid(t *testing.T) {
	root := t.TempDir()
	p := writeTemplate(t, root, "a.twig", "one {{ dump(x) }}\n{{ craft.request.foo }}\n")

	// the line-1 deletion must not invalidate the line-2 replacement
	out, err := Apply([]types.Finding{
		{File: "a.twig", Line: 1, Fix: &types.Fix{Safe: false, Search: "one {{ dump(x) }}", Replacement: ""}},
		{File: "a.twig", Line: 2, Fix: safeFix("craft.request.", "craft.app.request.")},
	}, Options{Root: root, ApplyUnsafe: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Applied != 2 {
		t.Fatalf("outcome %+v", out)
	}
	got := readBack(t, p)
	if strings.Contains(got, "dump") {
		t.Fatalf("dump line not deleted: %q", got)
	}
	if !strings.Contains(got, "craft.app.request.foo") {
		t.Fatalf("second fix lost: %q", got)
	}
}

func TestApply_UnsafeSkippedWithoutOptIn(t *testing.T) {
	root := t.TempDir()
	p := writeTemplate(t, root, "a.twig", "{{ dump(x) }}\n")

	out, err := Apply([]types.Finding{{
		File: "a.twig", Line: 1,
		Fix: &types.Fix{Safe: false, Search: "{{ dump(x) }}", Replacement: ""},
	}}, Options{Root: root})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Applied != 0 || out.Skipped != 1 {
		t.Fatalf("outcome %+v", out)
	}
	if got := readBack(t, p); !strings.Contains(got, "dump") {
		t.Fatalf("file was modified without opt-in: %q", got)
	}
}

func TestApply_SearchMissingIsSkippedNotGuessed(t *testing.T) {
	root := t.TempDir()
	p := writeTemplate(t, root, "a.twig", "{{ entry.title }}\n")

	out, err := Apply([]types.Finding{{
		File: "a.twig", Line: 1,
		Fix: safeFix("craft.entries().all()", "craft.entries().limit(100).all()"),
	}}, Options{Root: root})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Applied != 0 || out.Skipped != 1 {
		t.Fatalf("outcome %+v", out)
	}
	if got := readBack(t, p); got != "{{ entry.title }}\n" {
		t.Fatalf("file changed despite missing search text: %q", got)
	}
}

func TestApply_NoFixCountsAsSkipped(t *testing.T) {
	root := t.TempDir()
	writeTemplate(t, root, "a.twig", "x\n")

	out, err := Apply([]types.Finding{{File: "a.twig", Line: 1}}, Options{Root: root})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Applied != 0 || out.Skipped != 1 {
		t.Fatalf("outcome %+v", out)
	}
}

func TestApply_DryRunLeavesFileAlone(t *testing.T) {
	root := t.TempDir()
	p := writeTemplate(t, root, "a.twig", "{{ craft.request.foo }}\n")

	out, err := Apply([]types.Finding{{
		File: "a.twig", Line: 1,
		Fix: safeFix("craft.request.", "craft.app.request."),
	}}, Options{Root: root, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Applied != 1 {
		t.Fatalf("dry run still reports what would apply, got %+v", out)
	}
	if got := readBack(t, p); got != "{{ craft.request.foo }}\n" {
		t.Fatalf("dry run modified the file: %q", got)
	}
}
