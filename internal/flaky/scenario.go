package flaky

import "fmt"

// errorHintLen caps the error excerpt quoted inside a scenario.
const errorHintLen = 120

// GenerateScenarios renders one Gherkin block per flaky test and per
// true failure in the summary, flaky blocks first in the summary's
// score-descending order. Stable and skipped tests produce nothing.
func GenerateScenarios(summary Summary) []string {
	var scenarios []string
	for _, t := range summary.FlakyTests {
		scenarios = append(scenarios, fmt.Sprintf(
			"Feature: Flaky test %s\n"+
				"  Scenario: Stabilise flaky test %s\n"+
				"  Given the test \"%s\" has a flakiness score of %.2f\n"+
				"  And it passed %d/%d runs and failed %d/%d runs\n"+
				"  When the test is executed in isolation with deterministic inputs\n"+
				"  Then it should produce a consistent result",
			t.TestName, t.TestName, t.TestName, t.FlakinessScore,
			t.PassCount, t.TotalRuns, t.FailCount, t.TotalRuns))
	}
	for _, t := range summary.TrueFailures {
		scenarios = append(scenarios, fmt.Sprintf(
			"Feature: True failure %s\n"+
				"  Scenario: Fix consistently failing test %s\n"+
				"  Given the test \"%s\" fails in %d/%d runs\n"+
				"  And the most recent error is \"%s\"\n"+
				"  When the underlying bug is fixed\n"+
				"  Then the test should pass consistently",
			t.TestName, t.TestName, t.TestName, t.FailCount, t.TotalRuns,
			errorHint(t.ErrorMessages)))
	}
	return scenarios
}

func errorHint(messages []string) string {
	if len(messages) == 0 {
		return "unknown error"
	}
	hint := messages[0]
	if len(hint) > errorHintLen {
		hint = hint[:errorHintLen]
	}
	return hint
}
