package report

import (
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/accrava/craftlint/internal/rules"
	"github.com/accrava/craftlint/internal/types"
)

const toolName = "craftlint"
const toolURI = "https://craftlint.dev"

// WriteSARIF emits findings as a single-run SARIF 2.1.0 log. One reporting
// descriptor per distinct rule ID, one result per finding, with the baseline
// fingerprint attached as a partial fingerprint.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI(toolName, toolURI)

	for _, f := range findings {
		info := rules.Lookup(f.Pattern)
		run.AddRule(info.ID).
			WithHelpURI(info.DocsURL).
			WithDescription(string(f.Pattern)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: sarifLevel(f.Severity),
			})

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)
		result := sarif.NewRuleResult(info.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(sarifLevel(f.Severity)).
			WithLocations([]*sarif.Location{location}).
			WithPartialFingerPrints(map[string]interface{}{
				"craftlint/v1": rules.Fingerprint(f),
			})
		run.AddResult(result)
	}

	log.AddRun(run)
	return log.PrettyWrite(w)
}

func sarifLevel(sev types.Severity) string {
	switch sev {
	case types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	case types.SevLow:
		return "note"
	default:
		return "none"
	}
}
