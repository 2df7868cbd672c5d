package results

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// junitSuites is the <testsuites> aggregator root. Suites may nest, so
// flattening walks them recursively.
type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	XMLName xml.Name     `xml:"testsuite"`
	Name    string       `xml:"name,attr"`
	Suites  []junitSuite `xml:"testsuite"`
	Cases   []junitCase  `xml:"testcase"`
}

type junitCase struct {
	Name      string       `xml:"name,attr"`
	Classname string       `xml:"classname,attr"`
	Time      string       `xml:"time,attr"`
	Failure   *junitMarker `xml:"failure"`
	Error     *junitMarker `xml:"error"`
	Skipped   *junitMarker `xml:"skipped"`
}

type junitMarker struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// ParseJUnitXML parses a JUnit XML report into execution records. Both a
// <testsuites> aggregator root and a standalone <testsuite> root are
// accepted. runID overrides the run identifier; when empty it falls back
// to the file's base name without extension.
func ParseJUnitXML(path, runID string) ([]Execution, []Warning) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []Warning{{Kind: WarnReadFile, Path: path, Detail: err.Error()}}
	}

	var suites []junitSuite
	var agg junitSuites
	if err := xml.Unmarshal(data, &agg); err == nil {
		suites = agg.Suites
	} else {
		var single junitSuite
		if err2 := xml.Unmarshal(data, &single); err2 != nil {
			return nil, []Warning{{Kind: WarnParseXML, Path: path, Detail: err.Error()}}
		}
		suites = []junitSuite{single}
	}

	if runID == "" {
		runID = fileStem(path)
	}

	var execs []Execution
	for _, suite := range suites {
		execs = appendSuiteCases(execs, suite, runID)
	}
	return execs, nil
}

func appendSuiteCases(execs []Execution, suite junitSuite, runID string) []Execution {
	for _, tc := range suite.Cases {
		name := tc.Name
		if name == "" {
			name = "unknown"
		}
		fullName := name
		if tc.Classname != "" {
			fullName = tc.Classname + "::" + name
		}

		// Marker priority is fixed: failure beats error beats skipped.
		var status Status
		var msg string
		switch {
		case tc.Failure != nil:
			status = StatusFailed
			msg = markerMessage(tc.Failure)
		case tc.Error != nil:
			status = StatusError
			msg = markerMessage(tc.Error)
		case tc.Skipped != nil:
			status = StatusSkipped
			msg = tc.Skipped.Message
		default:
			status = StatusPassed
		}

		execs = append(execs, Execution{
			TestName:        fullName,
			Status:          status,
			RunID:           runID,
			DurationSeconds: parseDuration(tc.Time),
			ErrorMessage:    TruncateMessage(msg),
		})
	}
	for _, nested := range suite.Suites {
		execs = appendSuiteCases(execs, nested, runID)
	}
	return execs
}

// markerMessage prefers the message attribute and falls back to the
// element's text content.
func markerMessage(m *junitMarker) string {
	if m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(m.Text)
}

func parseDuration(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// fileStem returns the base name of path without its extension, the
// fallback run identifier for flat result directories.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
