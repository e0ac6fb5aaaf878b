package input

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// PipelineRef identifies a GitLab pipeline
type PipelineRef struct {
	Project string // numeric ID or full path such as group/project
	ID      string // numeric pipeline ID
}

// String returns a string representation of the PipelineRef
func (ref PipelineRef) String() string {
	return fmt.Sprintf("%s!%s", ref.Project, ref.ID)
}

var (
	// pipelinePathRegex matches the path of a GitLab pipeline web URL
	// (/group/sub/project/-/pipelines/123)
	pipelinePathRegex = regexp.MustCompile(`^/(.+?)/-/pipelines/(\d+)/?$`)

	// reportURLRegex matches the Testing Farm report link printed in job traces
	reportURLRegex = regexp.MustCompile(`Testing Farm report: (https://\S+)`)
)

// ParsePipelineRef resolves the --project and --pipeline flag values.
// The pipeline may be a numeric ID or a pipeline web URL; in the URL form the
// project is taken from the URL when project is empty, and must agree with it
// otherwise.
func ParsePipelineRef(project, pipeline string) (PipelineRef, error) {
	project = strings.TrimSpace(project)
	pipeline = strings.TrimSpace(pipeline)

	if pipeline == "" {
		return PipelineRef{}, fmt.Errorf("pipeline is required")
	}

	if _, err := strconv.Atoi(pipeline); err == nil {
		if project == "" {
			return PipelineRef{}, fmt.Errorf("project is required")
		}
		return PipelineRef{Project: project, ID: pipeline}, nil
	}

	parsedURL, err := url.Parse(pipeline)
	if err != nil || parsedURL.Host == "" {
		return PipelineRef{}, fmt.Errorf("invalid pipeline %q: expected a numeric ID or a pipeline URL", pipeline)
	}

	matches := pipelinePathRegex.FindStringSubmatch(parsedURL.Path)
	if matches == nil {
		return PipelineRef{}, fmt.Errorf("invalid GitLab pipeline URL format: %s", pipeline)
	}

	urlProject := matches[1]
	if project != "" && project != urlProject {
		if _, numeric := strconv.Atoi(project); numeric != nil {
			return PipelineRef{}, fmt.Errorf("project %q does not match pipeline URL project %q", project, urlProject)
		}
		// A numeric project ID cannot be compared with a path; trust the flag
		return PipelineRef{Project: project, ID: matches[2]}, nil
	}

	return PipelineRef{Project: urlProject, ID: matches[2]}, nil
}

// FindReportURL returns the first Testing Farm report URL printed in a job
// log, or "" when there is none.
func FindReportURL(log string) string {
	matches := reportURLRegex.FindStringSubmatch(log)
	if matches == nil {
		return ""
	}
	return matches[1]
}
