package input

import (
	"strings"
	"testing"
)

func TestParsePipelineRef_Valid(t *testing.T) {
	tests := []struct {
		name     string
		project  string
		pipeline string
		expected PipelineRef
	}{
		{
			name:     "numeric pipeline",
			project:  "12345",
			pipeline: "987",
			expected: PipelineRef{Project: "12345", ID: "987"},
		},
		{
			name:     "path project with whitespace",
			project:  "  group/project ",
			pipeline: " 987 ",
			expected: PipelineRef{Project: "group/project", ID: "987"},
		},
		{
			name:     "pipeline URL supplies project",
			pipeline: "https://gitlab.com/redhat/centos-stream/tests/-/pipelines/1234567",
			expected: PipelineRef{Project: "redhat/centos-stream/tests", ID: "1234567"},
		},
		{
			name:     "pipeline URL with trailing slash and query",
			project:  "group/project",
			pipeline: "https://gitlab.example.com/group/project/-/pipelines/42/?tab=failures",
			expected: PipelineRef{Project: "group/project", ID: "42"},
		},
		{
			name:     "numeric project with pipeline URL",
			project:  "777",
			pipeline: "https://gitlab.com/group/project/-/pipelines/42",
			expected: PipelineRef{Project: "777", ID: "42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParsePipelineRef(tt.project, tt.pipeline)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, ref)
			}
		})
	}
}

func TestParsePipelineRef_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		project       string
		pipeline      string
		expectedError string
	}{
		{
			name:          "missing pipeline",
			project:       "group/project",
			pipeline:      "",
			expectedError: "pipeline is required",
		},
		{
			name:          "missing project with numeric pipeline",
			pipeline:      "42",
			expectedError: "project is required",
		},
		{
			name:          "not a URL",
			project:       "group/project",
			pipeline:      "latest",
			expectedError: "expected a numeric ID or a pipeline URL",
		},
		{
			name:          "job URL instead of pipeline URL",
			pipeline:      "https://gitlab.com/group/project/-/jobs/42",
			expectedError: "invalid GitLab pipeline URL format",
		},
		{
			name:          "project mismatch",
			project:       "other/project",
			pipeline:      "https://gitlab.com/group/project/-/pipelines/42",
			expectedError: "does not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePipelineRef(tt.project, tt.pipeline)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.expectedError)
			}
			if !strings.Contains(err.Error(), tt.expectedError) {
				t.Errorf("expected error containing %q, got %q", tt.expectedError, err.Error())
			}
		})
	}
}

func TestPipelineRef_String(t *testing.T) {
	ref := PipelineRef{Project: "group/project", ID: "42"}
	if ref.String() != "group/project!42" {
		t.Errorf("expected group/project!42, got %s", ref.String())
	}
}

func TestFindReportURL(t *testing.T) {
	tests := []struct {
		name     string
		log      string
		expected string
	}{
		{
			name:     "link in the middle of a trace",
			log:      "$ testing-farm request\nTesting Farm report: https://artifacts.testing-farm.io/abc-123\nJob failed",
			expected: "https://artifacts.testing-farm.io/abc-123",
		},
		{
			name:     "first link wins",
			log:      "Testing Farm report: https://a.example.com/1\nTesting Farm report: https://a.example.com/2",
			expected: "https://a.example.com/1",
		},
		{
			name:     "plain http is ignored",
			log:      "Testing Farm report: http://a.example.com/1",
			expected: "",
		},
		{
			name:     "no link",
			log:      "FAIL: TestParse",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindReportURL(tt.log); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
