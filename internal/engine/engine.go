// Package engine runs the template scanner over a directory tree. Per-file
// scans share no state, so files are dispatched across a worker pool and the
// results are stitched back together in collection order to keep output
// deterministic.
package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/accrava/craftlint/internal/ignore"
	"github.com/accrava/craftlint/internal/scanner"
	"github.com/accrava/craftlint/internal/types"
)

type Config struct {
	Root       string
	Extensions []string // template extensions to scan; default .twig and .html
	MaxBytes   int64    // skip files larger than this; default 1 MiB
	Threads    int      // worker count; 0 = GOMAXPROCS
	Logger     hclog.Logger
}

type Result struct {
	Findings     []types.Finding
	FilesScanned int
	Duration     time.Duration
}

func Scan(cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(cfg)
	return res.Findings, err
}

// ScanWithStats collects eligible template files under cfg.Root and scans
// each one. Unreadable files are skipped with a log line; the scan continues
// with partial results.
func ScanWithStats(cfg Config) (Result, error) {
	start := time.Now()
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	ign, _ := ignore.LoadRoot(cfg.Root)
	files, err := Collect(cfg, ign)
	if err != nil {
		return Result{}, err
	}
	log.Debug("collected template files", "count", len(files))

	// one result slot per file keeps concatenation order independent of
	// worker scheduling; each index is written by exactly one worker
	perFile := make([][]types.Finding, len(files))
	scanned := make([]bool, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rel := files[i]
				data, err := os.ReadFile(filepath.Join(cfg.Root, filepath.FromSlash(rel)))
				if err != nil {
					log.Warn("skipping unreadable file", "path", rel, "error", err)
					continue
				}
				perFile[i] = scanner.Scan(rel, data)
				scanned[i] = true
				log.Debug("scanned", "path", rel, "findings", len(perFile[i]))
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var out []types.Finding
	count := 0
	for i := range perFile {
		if scanned[i] {
			count++
		}
		out = append(out, perFile[i]...)
	}
	return Result{Findings: out, FilesScanned: count, Duration: time.Since(start)}, nil
}
