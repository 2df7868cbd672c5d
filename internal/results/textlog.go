package results

import (
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// textResultRE matches lines like:
//
//	PASS  tests/test_auth.py::test_login (0.32s)
//	FAIL  tests/test_auth.py::test_login (AssertionError)
//	SKIP  tests/test_auth.py::test_login
var textResultRE = regexp.MustCompile(`(?i)(PASS(?:ED)?|FAIL(?:ED)?|ERROR|SKIP(?:PED)?)\s+(\S+)`)

// ParseTextLog extracts test results from plain-text CI log output.
// Undecodable bytes are replaced rather than treated as a read failure.
func ParseTextLog(path, runID string) ([]Execution, []Warning) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []Warning{{Kind: WarnReadFile, Path: path, Detail: err.Error()}}
	}
	content := strings.ToValidUTF8(string(data), string(utf8.RuneError))

	if runID == "" {
		runID = fileStem(path)
	}

	var execs []Execution
	for _, m := range textResultRE.FindAllStringSubmatch(content, -1) {
		execs = append(execs, Execution{
			TestName: m[2],
			Status:   NormalizeStatus(m[1]),
			RunID:    runID,
		})
	}
	return execs, nil
}
