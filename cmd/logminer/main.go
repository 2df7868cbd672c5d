// logminer classifies CI test results as flaky, true failures, stable or
// always skipped, and turns the findings into remediation scenarios.
//
// Usage:
//
//	logminer analyze   --results-dir <dir> [-o <report.json>] [--markdown <report.md>]
//	logminer scenarios --results-dir <dir> [--from-failures <dump.json>] [--out <path>]
//	logminer serve     --addr :8080
//	logminer mcp
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
