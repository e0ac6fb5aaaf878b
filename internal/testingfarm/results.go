package testingfarm

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Result outcomes that mark a test case as failing
const (
	ResultFailed = "failed"
	ResultError  = "error"
)

// Log is an artifact link attached to a test case
type Log struct {
	Name string `xml:"name,attr"`
	Href string `xml:"href,attr"`
}

// TestCase is a single <testcase> element of results.xml
type TestCase struct {
	Name   string `xml:"name,attr"`
	Result string `xml:"result,attr"`
	Logs   []Log  `xml:"log"`
	// Some result files group artifacts under <logs>
	Grouped []Log `xml:"logs>log"`
}

// AllLogs returns every log link attached to the test case.
func (tc TestCase) AllLogs() []Log {
	if len(tc.Grouped) == 0 {
		return tc.Logs
	}
	all := make([]Log, 0, len(tc.Logs)+len(tc.Grouped))
	all = append(all, tc.Logs...)
	return append(all, tc.Grouped...)
}

// Failing reports whether the test case result is failed or error.
func (tc TestCase) Failing() bool {
	return tc.Result == ResultFailed || tc.Result == ResultError
}

// TestSuite is a <testsuite> element
type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Result    string     `xml:"result,attr"`
	TestCases []TestCase `xml:"testcase"`
}

// testSuites is the <testsuites> wrapper produced by newer Testing Farm runs
type testSuites struct {
	XMLName xml.Name    `xml:"testsuites"`
	Suites  []TestSuite `xml:"testsuite"`
}

// ParseError reports a malformed results document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing Testing Farm XML: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseResults decodes a results.xml document. Documents rooted at either
// <testsuite> or <testsuites> are accepted; suites are merged into one.
func ParseResults(data []byte) (*TestSuite, error) {
	var root struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Err: err}
	}

	switch root.XMLName.Local {
	case "testsuite":
		suite := &TestSuite{}
		if err := xml.Unmarshal(data, suite); err != nil {
			return nil, &ParseError{Err: err}
		}
		return suite, nil
	case "testsuites":
		wrapped := &testSuites{}
		if err := xml.Unmarshal(data, wrapped); err != nil {
			return nil, &ParseError{Err: err}
		}
		merged := &TestSuite{Name: "testsuites"}
		for _, s := range wrapped.Suites {
			merged.TestCases = append(merged.TestCases, s.TestCases...)
		}
		return merged, nil
	default:
		return nil, &ParseError{Err: fmt.Errorf("unexpected root element <%s>", root.XMLName.Local)}
	}
}

// Links holds the artifact links found on failing test cases. Empty strings
// mean no link was found.
type Links struct {
	Failures string
	TestOut  string
}

// ExtractLinks scans failing test cases for their failures and testout.log
// artifacts. Later test cases override earlier ones.
func ExtractLinks(suite *TestSuite) Links {
	var links Links
	if suite == nil {
		return links
	}
	for _, tc := range suite.TestCases {
		if !tc.Failing() {
			continue
		}
		for _, l := range tc.AllLogs() {
			if strings.Contains(l.Name, "failures") {
				links.Failures = l.Href
			}
			if strings.Contains(l.Name, "testout.log") {
				links.TestOut = l.Href
			}
		}
	}
	return links
}
