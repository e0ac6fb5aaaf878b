package report

import (
	"testing"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Answer
	}{
		{
			name: "both labels",
			raw: `Summary: The build failed because the go.sum entry for golang.org/x/net is missing.
Possible Fixes: Run go mod tidy; commit the updated go.sum`,
			expected: Answer{
				Summary: "The build failed because the go.sum entry for golang.org/x/net is missing.",
				Fixes:   "Run go mod tidy; commit the updated go.sum",
			},
		},
		{
			name: "preamble before summary is dropped",
			raw: `Here is my analysis.

Summary:
Unit test TestParse timed out.

Possible Fixes:
1. Increase the timeout
2. Split the test`,
			expected: Answer{
				Summary: "Unit test TestParse timed out.",
				Fixes:   "1. Increase the timeout\n2. Split the test",
			},
		},
		{
			name: "fixes label first",
			raw:  "Possible Fixes: retry the job\nSummary: flaky network",
			expected: Answer{
				Summary: "retry the job",
				Fixes:   "flaky network",
			},
		},
		{
			name: "only summary label",
			raw:  "Summary: the job ran out of disk space",
			expected: Answer{
				Summary: "Summary: the job ran out of disk space",
			},
		},
		{
			name: "no labels",
			raw:  "The job failed.",
			expected: Answer{
				Summary: "The job failed.",
			},
		},
		{
			name:     "empty answer",
			raw:      "",
			expected: Answer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := ParseAnswer(tt.raw)
			if answer.Summary != tt.expected.Summary {
				t.Errorf("expected summary %q, got %q", tt.expected.Summary, answer.Summary)
			}
			if answer.Fixes != tt.expected.Fixes {
				t.Errorf("expected fixes %q, got %q", tt.expected.Fixes, answer.Fixes)
			}
		})
	}
}
