package derive

import (
	"strings"

	"github.com/Attamusc/pipelinebot/internal/gitlab"
	"github.com/Attamusc/pipelinebot/internal/input"
)

// LogSource identifies where the failure text of a job comes from
type LogSource int

const (
	// SourceDirect means the job trace itself is the failure text
	SourceDirect LogSource = iota
	// SourceTestingFarm means the job delegated to Testing Farm and the
	// failure text lives in the linked results
	SourceTestingFarm
)

// String returns a short name for logging
func (s LogSource) String() string {
	switch s {
	case SourceTestingFarm:
		return "testing-farm"
	default:
		return "direct"
	}
}

// testingFarmKeywords identify the Testing Farm integration in job names and tags
var testingFarmKeywords = []string{"testing-farm", "testing_farm", "testingfarm"}

// IsExternalReportJob reports whether a job delegated its tests to Testing
// Farm. Job metadata is checked before the (much larger) log text.
func IsExternalReportJob(job gitlab.Job, log string) bool {
	if containsKeyword(job.Name) {
		return true
	}
	for _, tag := range job.Tags {
		if containsKeyword(tag) {
			return true
		}
	}
	return input.FindReportURL(log) != ""
}

// LogSourceFor classifies a job into its LogSource
func LogSourceFor(job gitlab.Job, log string) LogSource {
	if IsExternalReportJob(job, log) {
		return SourceTestingFarm
	}
	return SourceDirect
}

func containsKeyword(s string) bool {
	normalized := strings.ToLower(s)
	for _, keyword := range testingFarmKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}
