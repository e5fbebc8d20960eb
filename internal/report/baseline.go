package report

import (
	"encoding/json"
	"os"

	"github.com/accrava/craftlint/internal/rules"
	"github.com/accrava/craftlint/internal/types"
)

const BaselineFile = "craftlint.baseline.json"

// Baseline holds previously-accepted finding fingerprints. A finding whose
// fingerprint is present is filtered from new-scan output.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return b, err
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[rules.Fingerprint(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if base.Items == nil || !base.Items[rules.Fingerprint(f)] {
			out = append(out, f)
		}
	}
	return out
}
