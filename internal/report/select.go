package report

import (
	"github.com/Attamusc/pipelinebot/internal/gitlab"
)

// SelectFailed returns the failed jobs, preserving the order the job source
// returned them in.
func SelectFailed(jobs []gitlab.Job) []gitlab.Job {
	var failed []gitlab.Job
	for _, job := range jobs {
		if job.IsFailed() {
			failed = append(failed, job)
		}
	}
	return failed
}
