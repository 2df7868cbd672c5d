package failures

import (
	"fmt"
	"strings"
)

// hintLen caps the error excerpt quoted inside a scenario.
const hintLen = 120

// Scenario renders one Gherkin reproduction block for a failure.
func Scenario(f Failure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature: Test failure %s\n", f.TestName)
	fmt.Fprintf(&b, "  Scenario: Reproduce failing test %s\n", f.TestName)
	fmt.Fprintf(&b, "  Given the test \"%s\" failed with \"%s\"\n", f.TestName, hint(f.Message))
	if f.Browser != "" {
		fmt.Fprintf(&b, "  And the browser was %s\n", f.Browser)
	}
	if f.OS != "" {
		fmt.Fprintf(&b, "  And the operating system was %s\n", f.OS)
	}
	if f.Selector != "" {
		fmt.Fprintf(&b, "  And the failing selector was \"%s\"\n", f.Selector)
	}
	b.WriteString("  When the failure is reproduced locally\n")
	b.WriteString("  Then the root cause should be identified and fixed")
	return b.String()
}

// Scenarios renders one block per failure, in input order.
func Scenarios(failures []Failure) []string {
	var blocks []string
	for _, f := range failures {
		blocks = append(blocks, Scenario(f))
	}
	return blocks
}

func hint(message string) string {
	if message == "" {
		return "unknown error"
	}
	if len(message) > hintLen {
		return message[:hintLen]
	}
	return message
}
