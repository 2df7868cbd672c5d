package results

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the parse fan-out when callers do not choose one.
const DefaultWorkers = 4

// resultExtensions are the file types the loader dispatches; everything
// else is silently ignored.
var resultExtensions = map[string]bool{
	".xml":  true,
	".json": true,
	".log":  true,
	".txt":  true,
}

type parseTask struct {
	path  string
	runID string
}

type parseOutput struct {
	execs []Execution
	warns []Warning
}

// LoadDirectory scans a directory for test result files and parses them
// all with up to workers files in flight. Two layouts are recognized:
//
//	results/
//	  run_001/report.xml     each subdirectory is one run; its name is
//	  run_002/report.xml     the run identifier for every file inside
//
//	results/
//	  report_001.xml         flat: run identifiers derive from file names
//	  report_002.json
//
// The run-subdirectory convention takes precedence: when any immediate
// subdirectory exists, loose files at the root are not scanned. A missing
// root is non-fatal and reported as a warning.
func LoadDirectory(root string, workers int) ([]Execution, []Warning) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, []Warning{{Kind: WarnMissingDir, Path: root, Detail: "test results directory does not exist"}}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, []Warning{{Kind: WarnReadFile, Path: root, Detail: err.Error()}}
	}

	var warns []Warning
	var tasks []parseTask

	var subdirs []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e)
		}
	}

	if len(subdirs) > 0 {
		for _, dir := range subdirs {
			runDir := filepath.Join(root, dir.Name())
			files, err := os.ReadDir(runDir)
			if err != nil {
				warns = append(warns, Warning{Kind: WarnReadFile, Path: runDir, Detail: err.Error()})
				continue
			}
			for _, f := range files {
				if f.IsDir() || !resultExtensions[strings.ToLower(filepath.Ext(f.Name()))] {
					continue
				}
				tasks = append(tasks, parseTask{path: filepath.Join(runDir, f.Name()), runID: dir.Name()})
			}
		}
	} else {
		for _, e := range entries {
			if e.IsDir() || !resultExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			tasks = append(tasks, parseTask{path: filepath.Join(root, e.Name())})
		}
	}

	if workers < 1 {
		workers = 1
	}

	// Index-addressed slots keep the merged output order deterministic
	// regardless of goroutine scheduling.
	outputs := make([]parseOutput, len(tasks))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			execs, taskWarns := parseFile(task.path, task.runID)
			outputs[i] = parseOutput{execs: execs, warns: taskWarns}
			return nil
		})
	}
	_ = g.Wait() // workers report via warnings, never errors

	var execs []Execution
	for _, out := range outputs {
		execs = append(execs, out.execs...)
		warns = append(warns, out.warns...)
	}
	return execs, warns
}

// parseFile dispatches one file to the parser selected by extension.
// Extensions outside resultExtensions never reach here.
func parseFile(path, runID string) ([]Execution, []Warning) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return ParseJUnitXML(path, runID)
	case ".json":
		return ParseJSONResults(path, runID)
	default:
		return ParseTextLog(path, runID)
	}
}
