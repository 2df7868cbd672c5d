// Package flaky classifies CI test executions into flaky, true failure,
// stable and always-skipped buckets based on their pass/fail history
// across runs.
//
// The flakiness score of a test is
//
//	2 * min(pass_rate, fail_rate)
//
// over its non-skipped executions: 0.0 for a test that always passes or
// always fails, 1.0 for a perfect 50/50 split. Errored executions count
// as failures.
package flaky

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/77QAlab/LogMiner-QA/internal/logging"
	"github.com/77QAlab/LogMiner-QA/internal/results"
)

// Analyzer groups executions by test name and classifies each group
// under one Config. Safe for concurrent use.
type Analyzer struct {
	cfg     Config
	workers int
	log     *slog.Logger
}

// Option adjusts an Analyzer during construction.
type Option func(*Analyzer) error

// WithWorkers sets the parse concurrency used by AnalyzeDirectory.
func WithWorkers(n int) Option {
	return func(a *Analyzer) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		a.workers = n
		return nil
	}
}

// WithLogger replaces the analyzer's logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) error {
		if log == nil {
			return fmt.Errorf("logger must not be nil")
		}
		a.log = log
		return nil
	}
}

// New validates cfg and builds an Analyzer.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	a := &Analyzer{
		cfg:     cfg,
		workers: results.DefaultWorkers,
		log:     logging.New("flaky"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze classifies every test name appearing in records and returns
// the aggregate summary. Groups are formed in first-appearance order;
// the flaky list is then ordered by score descending, ties keeping
// that first-appearance order.
func (a *Analyzer) Analyze(records []results.Execution) Summary {
	grouped := make(map[string][]results.Execution)
	var order []string
	for _, rec := range records {
		if _, seen := grouped[rec.TestName]; !seen {
			order = append(order, rec.TestName)
		}
		grouped[rec.TestName] = append(grouped[rec.TestName], rec)
	}

	var flakyTests, trueFailures []TestResult
	var stable, alwaysSkipped int
	for _, name := range order {
		res := a.classifyGroup(name, grouped[name])
		switch res.Classification {
		case ClassFlaky:
			flakyTests = append(flakyTests, res)
		case ClassTrueFailure:
			trueFailures = append(trueFailures, res)
		case ClassAlwaysSkipped:
			alwaysSkipped++
		default:
			stable++
		}
	}
	sort.SliceStable(flakyTests, func(i, j int) bool {
		return flakyTests[i].FlakinessScore > flakyTests[j].FlakinessScore
	})

	total := len(order)
	rate := 0.0
	if total > 0 {
		rate = float64(len(flakyTests)) / float64(total)
	}

	runs := make(map[string]struct{})
	for _, rec := range records {
		if rec.RunID != "" {
			runs[rec.RunID] = struct{}{}
		}
	}

	a.log.Info("analysis complete",
		"tests", total,
		"flaky", len(flakyTests),
		"true_failures", len(trueFailures),
		"stable", stable,
		"always_skipped", alwaysSkipped)

	return Summary{
		TotalTestsAnalyzed:   total,
		FlakyTests:           flakyTests,
		TrueFailures:         trueFailures,
		StableTests:          stable,
		AlwaysSkipped:        alwaysSkipped,
		OverallFlakinessRate: rate,
		Metadata: Metadata{
			TotalExecutions: len(records),
			UniqueRuns:      len(runs),
			Config:          a.cfg,
		},
	}
}

// AnalyzeDirectory loads results from root and analyzes them. Loader
// warnings are returned for the caller to surface; they never abort
// the analysis.
func (a *Analyzer) AnalyzeDirectory(root string) (Summary, []results.Warning) {
	records, warns := results.LoadDirectory(root, a.workers)
	a.log.Info("loaded test executions", "count", len(records), "dir", root)
	return a.Analyze(records), warns
}

func (a *Analyzer) classifyGroup(name string, execs []results.Execution) TestResult {
	var passCount, failCount, errorCount, skipCount int
	failRuns := make(map[string]struct{})
	passRuns := make(map[string]struct{})
	seenMsg := make(map[string]struct{})
	var messages []string

	for _, e := range execs {
		switch e.Status {
		case results.StatusPassed:
			passCount++
			if e.RunID != "" {
				passRuns[e.RunID] = struct{}{}
			}
		case results.StatusFailed:
			failCount++
			if e.RunID != "" {
				failRuns[e.RunID] = struct{}{}
			}
		case results.StatusError:
			errorCount++
			if e.RunID != "" {
				failRuns[e.RunID] = struct{}{}
			}
		case results.StatusSkipped:
			skipCount++
		}
		if e.ErrorMessage != "" {
			if _, ok := seenMsg[e.ErrorMessage]; !ok {
				seenMsg[e.ErrorMessage] = struct{}{}
				messages = append(messages, e.ErrorMessage)
			}
		}
	}

	effectiveRuns := passCount + failCount + errorCount
	combinedFails := failCount + errorCount

	var score float64
	var class Classification
	switch {
	case effectiveRuns == 0:
		class = ClassAlwaysSkipped
	case effectiveRuns < a.cfg.MinRunsRequired:
		// Below the sample floor the thresholds do not apply; the exact
		// pass/fail mix decides.
		score = flakinessScore(passCount, combinedFails, effectiveRuns)
		switch {
		case combinedFails == effectiveRuns:
			class = ClassTrueFailure
		case combinedFails == 0:
			class = ClassStable
		default:
			class = ClassFlaky
		}
	default:
		score = flakinessScore(passCount, combinedFails, effectiveRuns)
		failRate := float64(combinedFails) / float64(effectiveRuns)
		switch {
		case failRate >= a.cfg.TrueFailureThreshold:
			class = ClassTrueFailure
		case score > a.cfg.FlakinessThreshold && combinedFails > 0 && passCount > 0:
			class = ClassFlaky
		default:
			class = ClassStable
		}
	}

	return TestResult{
		TestName:       name,
		TotalRuns:      len(execs),
		PassCount:      passCount,
		FailCount:      failCount,
		ErrorCount:     errorCount,
		SkipCount:      skipCount,
		FlakinessScore: score,
		Classification: class,
		FailRunIDs:     sortedRunIDs(failRuns),
		PassRunIDs:     sortedRunIDs(passRuns),
		ErrorMessages:  messages,
	}
}

func flakinessScore(passCount, combinedFails, effectiveRuns int) float64 {
	passRate := float64(passCount) / float64(effectiveRuns)
	failRate := float64(combinedFails) / float64(effectiveRuns)
	return 2 * math.Min(passRate, failRate)
}

func sortedRunIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
