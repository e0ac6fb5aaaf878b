package format

import (
	"fmt"
	"strings"

	"github.com/Attamusc/pipelinebot/internal/report"
)

const (
	bannerWidth    = 80
	bannerTitle    = "🚀 PIPELINE FAILURE ANALYSIS REPORT"
	successMessage = "All jobs passed! 🎉"
)

// Failure is the rendered-ready record for one failed job
type Failure struct {
	JobName string
	Summary string // cleaned summary, or a decorated placeholder
	Fixes   string // cleaned fixes text, rendered as a list by RenderReport
}

// NewFailure cleans a parsed backend answer into a Failure. Summaries that
// still look like raw log output are replaced with a placeholder.
func NewFailure(jobName string, answer report.Answer, d Decorator) Failure {
	summary := CleanText(answer.Summary, d)
	fixes := CleanText(answer.Fixes, d)

	if IsNoisy(summary) {
		summary = d.Error(UnavailableMarker)
	}

	return Failure{
		JobName: jobName,
		Summary: summary,
		Fixes:   fixes,
	}
}

// ErrorFailure records a job whose processing failed outright
func ErrorFailure(jobName string, err error) Failure {
	return Failure{
		JobName: jobName,
		Summary: fmt.Sprintf("Error processing job: %v", err),
	}
}

// RenderSection renders one job block. Index is 1-based.
func RenderSection(index int, f Failure, d Decorator) string {
	var builder strings.Builder

	builder.WriteString(d.Header(fmt.Sprintf("Job %d: %s", index, f.JobName)))
	builder.WriteString("\n")
	builder.WriteString(d.Reason("Reason:"))
	builder.WriteString(" ")
	builder.WriteString(f.Summary)
	builder.WriteString("\n")
	builder.WriteString(d.FixesLabel(report.LabelFixes))
	builder.WriteString("\n")
	builder.WriteString(RenderFixes(f.Fixes))
	builder.WriteString("\n\n")

	return builder.String()
}

// RenderReport concatenates the job blocks in order. With no failures the
// report is the success message alone.
func RenderReport(failures []Failure, d Decorator) string {
	if len(failures) == 0 {
		return d.Success(successMessage)
	}

	var builder strings.Builder
	for i, f := range failures {
		builder.WriteString(RenderSection(i+1, f, d))
	}
	return builder.String()
}

// Banner returns the report heading
func Banner() string {
	rule := strings.Repeat("=", bannerWidth)
	return rule + "\n" + bannerTitle + "\n" + rule + "\n"
}

// PipelineError renders a failure to summarize the pipeline as a whole
func PipelineError(err error, d Decorator) string {
	return d.Error(fmt.Sprintf("Error: Unable to summarize pipeline. %v", err))
}
