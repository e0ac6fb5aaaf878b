package report

import (
	"regexp"
	"strings"
)

// Section labels the backend is asked to use in its answer
const (
	LabelSummary = "Summary:"
	LabelFixes   = "Possible Fixes:"
)

// Answer is a backend answer split into its summary and fix suggestions
type Answer struct {
	Summary string
	Fixes   string
}

var labelRegex = regexp.MustCompile(regexp.QuoteMeta(LabelSummary) + `|` + regexp.QuoteMeta(LabelFixes))

// ParseAnswer splits a backend answer on the Summary:/Possible Fixes: labels.
// When both labels are present the text after the first label is the summary
// and the text after the second is the fixes; otherwise the whole answer is
// the summary and fixes are empty.
func ParseAnswer(raw string) Answer {
	if !strings.Contains(raw, LabelSummary) || !strings.Contains(raw, LabelFixes) {
		return Answer{Summary: raw}
	}

	parts := labelRegex.Split(raw, -1)

	answer := Answer{Summary: raw}
	if len(parts) > 1 {
		answer.Summary = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		answer.Fixes = strings.TrimSpace(parts[2])
	}
	return answer
}
