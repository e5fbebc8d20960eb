package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/accrava/craftlint/internal/audit"
	"github.com/accrava/craftlint/internal/config"
	"github.com/accrava/craftlint/internal/engine"
	"github.com/accrava/craftlint/internal/report"
	"github.com/accrava/craftlint/internal/tui"
	"github.com/accrava/craftlint/internal/types"
)

var (
	flagPath           string
	flagJSON           bool
	flagSARIF          bool
	flagFailOn         string
	flagThreads        int
	flagMaxBytes       int64
	flagExtensions     []string
	flagNoColor        bool
	flagBaseline       string
	flagNoBaseline     bool
	flagUpdateBaseline bool
	flagInteractive    bool
	flagShowFixes      bool
	flagVerbose        bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan templates for anti-patterns",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "template directory to scan")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "medium", "lowest severity that fails (info|low|medium|high)")
	cmd.Flags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = default 1MiB)")
	cmd.Flags().StringSliceVar(&flagExtensions, "ext", nil, "template extensions (default .twig,.html)")
	cmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&flagBaseline, "baseline", report.BaselineFile, "baseline file")
	cmd.Flags().BoolVar(&flagNoBaseline, "no-baseline", false, "report baselined findings too")
	cmd.Flags().BoolVar(&flagUpdateBaseline, "update-baseline", false, "write baseline from this scan")
	cmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "review and apply fixes interactively")
	cmd.Flags().BoolVar(&flagShowFixes, "show-fixes", false, "print fix suggestions in table output")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")
}

func runScan(cmd *cobra.Command, _ []string) error {
	abs, err := filepath.Abs(flagPath)
	if err != nil {
		return err
	}

	// config precedence: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	logger := hclog.NewNullLogger()
	if flagVerbose {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "craftlint",
			Output: os.Stderr,
			Level:  hclog.Debug,
		})
	}

	cfg := engine.Config{
		Root:       abs,
		Threads:    pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		MaxBytes:   pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Extensions: pickStrings(flagExtensions, lcfg.Extensions, gcfg.Extensions),
		Logger:     logger,
	}

	res, err := engine.ScanWithStats(cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	newFindings := res.Findings
	baselinePath := filepath.Join(abs, flagBaseline)
	if !flagNoBaseline {
		if baseline, err := report.LoadBaseline(baselinePath); err == nil {
			newFindings = report.FilterNewFindings(res.Findings, baseline)
		}
	}
	if newFindings == nil {
		newFindings = []types.Finding{}
	} // no `null` in JSON

	if flagUpdateBaseline {
		if err := report.SaveBaseline(baselinePath, res.Findings); err != nil {
			return fmt.Errorf("baseline write error: %w", err)
		}
	}

	log := audit.NewAuditLog(abs)
	if err := log.LogScan(audit.CreateScanRecord(abs, res.Findings, newFindings, res.FilesScanned, res.Duration, flagBaseline)); err != nil {
		logger.Warn("audit log write failed", "error", err)
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, newFindings); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newFindings); err != nil {
			return fmt.Errorf("json error: %w", err)
		}
	case flagInteractive:
		if err := tui.Run(abs, newFindings); err != nil {
			return err
		}
	default:
		noColor := flagNoColor ||
			pickBoolValue(lcfg.NoColor, gcfg.NoColor) ||
			os.Getenv("NO_COLOR") != "" ||
			!isatty.IsTerminal(os.Stdout.Fd())
		report.PrintTable(os.Stdout, newFindings, report.PrintOptions{
			NoColor:      noColor,
			FilesScanned: res.FilesScanned,
			ShowFixes:    flagShowFixes,
		})
	}

	failOn := flagFailOn
	if !cmd.Flags().Changed("fail-on") {
		if s := pickStringValue(lcfg.FailOn, gcfg.FailOn); s != "" {
			failOn = s
		}
	}
	if report.ShouldFail(newFindings, failOn) {
		os.Exit(1)
	}
	return nil
}

func pickInt(flag int, local, global *int) int {
	if flag != 0 {
		return flag
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return 0
}

func pickInt64(flag int64, local, global *int64) int64 {
	if flag != 0 {
		return flag
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return 0
}

func pickStrings(flag, local, global []string) []string {
	if len(flag) > 0 {
		return flag
	}
	if len(local) > 0 {
		return local
	}
	return global
}

func pickStringValue(local, global *string) string {
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return ""
}

func pickBoolValue(local, global *bool) bool {
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
