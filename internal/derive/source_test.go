package derive

import (
	"testing"

	"github.com/Attamusc/pipelinebot/internal/gitlab"
)

func TestIsExternalReportJob(t *testing.T) {
	tests := []struct {
		name     string
		job      gitlab.Job
		log      string
		expected bool
	}{
		// Name matches
		{
			name:     "sanity job name",
			job:      gitlab.Job{Name: "testing-farm-sanity"},
			expected: true,
		},
		{
			name:     "underscore keyword",
			job:      gitlab.Job{Name: "run_testing_farm"},
			expected: true,
		},
		{
			name:     "uppercase name",
			job:      gitlab.Job{Name: "TestingFarm:Fedora"},
			expected: true,
		},
		{
			name:     "name wins regardless of tags and log",
			job:      gitlab.Job{Name: "testing-farm-sanity", Tags: []string{"docker"}},
			log:      "plain output",
			expected: true,
		},

		// Tag matches
		{
			name:     "tag contains keyword",
			job:      gitlab.Job{Name: "integration", Tags: []string{"shared", "Testing-Farm-Runner"}},
			expected: true,
		},

		// Log matches
		{
			name:     "report link in log",
			job:      gitlab.Job{Name: "integration"},
			log:      "submitting request\nTesting Farm report: https://artifacts.example.com/abc\ndone",
			expected: true,
		},
		{
			name:     "report label without https link",
			job:      gitlab.Job{Name: "integration"},
			log:      "Testing Farm report: http://artifacts.example.com/abc",
			expected: false,
		},
		{
			name:     "report label with empty link",
			job:      gitlab.Job{Name: "integration"},
			log:      "Testing Farm report: https:// ",
			expected: false,
		},

		// No match
		{
			name:     "unrelated job",
			job:      gitlab.Job{Name: "unit-tests", Tags: []string{"docker", "linux"}},
			log:      "FAIL: TestParse\nexit status 1",
			expected: false,
		},
		{
			name:     "empty job",
			job:      gitlab.Job{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsExternalReportJob(tt.job, tt.log)
			if result != tt.expected {
				t.Errorf("IsExternalReportJob(%+v, %q) = %v, expected %v", tt.job, tt.log, result, tt.expected)
			}
		})
	}
}

func TestLogSourceFor(t *testing.T) {
	if got := LogSourceFor(gitlab.Job{Name: "testing-farm-sanity"}, ""); got != SourceTestingFarm {
		t.Errorf("expected SourceTestingFarm, got %v", got)
	}
	if got := LogSourceFor(gitlab.Job{Name: "lint"}, "ok"); got != SourceDirect {
		t.Errorf("expected SourceDirect, got %v", got)
	}
	if SourceTestingFarm.String() != "testing-farm" || SourceDirect.String() != "direct" {
		t.Errorf("unexpected LogSource names: %s, %s", SourceTestingFarm, SourceDirect)
	}
}
