package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Attamusc/pipelinebot/internal/ai"
	"github.com/Attamusc/pipelinebot/internal/derive"
	"github.com/Attamusc/pipelinebot/internal/format"
	"github.com/Attamusc/pipelinebot/internal/gitlab"
	"github.com/Attamusc/pipelinebot/internal/input"
	"github.com/Attamusc/pipelinebot/internal/report"
)

// MissingReportURL is the failure text for a Testing Farm job whose log does
// not link its results
const MissingReportURL = "Could not find Testing Farm report URL in job log."

// JobSource lists pipeline jobs and fetches their logs
type JobSource interface {
	ListJobs(ctx context.Context, project, pipeline string) ([]gitlab.Job, error)
	FetchJobLog(ctx context.Context, project string, jobID int) string
}

// ReportFetcher resolves a Testing Farm report URL into failure text
type ReportFetcher interface {
	FetchFailureText(ctx context.Context, reportURL string) string
}

// ProgressFunc is called before each failed job is processed. done counts
// the jobs already finished.
type ProgressFunc func(done, total int, jobName string)

// Summarizer drives one pipeline summary from job listing to rendered report
type Summarizer struct {
	jobs       JobSource
	reports    ReportFetcher
	summarizer ai.Summarizer
	decorator  format.Decorator
	logger     *slog.Logger
	progress   ProgressFunc
}

// Option configures a Summarizer
type Option func(*Summarizer)

// WithLogger sets the progress logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDecorator sets report decoration. Reports are plain by default.
func WithDecorator(d format.Decorator) Option {
	return func(s *Summarizer) {
		if d != nil {
			s.decorator = d
		}
	}
}

// OnProgress registers a per-job progress callback
func OnProgress(fn ProgressFunc) Option {
	return func(s *Summarizer) {
		s.progress = fn
	}
}

// New creates a Summarizer over the given collaborators
func New(jobs JobSource, reports ReportFetcher, summarizer ai.Summarizer, opts ...Option) *Summarizer {
	s := &Summarizer{
		jobs:       jobs,
		reports:    reports,
		summarizer: summarizer,
		decorator:  format.PlainDecorator{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run produces the failure report for a pipeline. Only a failure to list the
// pipeline's jobs is returned as an error; problems with individual jobs are
// written into their report sections.
func (s *Summarizer) Run(ctx context.Context, project, pipeline string) (string, error) {
	jobs, err := s.jobs.ListJobs(ctx, project, pipeline)
	if err != nil {
		return "", fmt.Errorf("failed to list jobs for pipeline %s: %w", input.PipelineRef{Project: project, ID: pipeline}, err)
	}

	failed := report.SelectFailed(jobs)
	if len(failed) == 0 {
		s.logger.Info("No failed jobs in pipeline", "pipeline", pipeline, "jobs", len(jobs))
		return format.RenderReport(nil, s.decorator), nil
	}

	s.logger.Info("Found failed jobs to process", "failed", len(failed), "jobs", len(jobs))

	failures := make([]format.Failure, 0, len(failed))
	for i, job := range failed {
		if s.progress != nil {
			s.progress(i, len(failed), job.Name)
		}
		s.logger.Info("Processing job", "index", i+1, "total", len(failed), "job", job.Name)

		if err := ctx.Err(); err != nil {
			failures = append(failures, format.ErrorFailure(job.Name, err))
			continue
		}
		failures = append(failures, s.processJob(ctx, project, job))
	}
	if s.progress != nil {
		s.progress(len(failed), len(failed), "")
	}

	return format.RenderReport(failures, s.decorator), nil
}

// processJob gathers the failure text of one job and turns the backend's
// answer into a report entry
func (s *Summarizer) processJob(ctx context.Context, project string, job gitlab.Job) format.Failure {
	errorLog := s.failureText(ctx, project, job)

	answer, err := s.summarizer.Summarize(ctx, errorLog)
	if err != nil {
		s.logger.Warn("Summarization failed", "job", job.Name, "error", err)
		answer = "Error: " + err.Error()
	}

	return format.NewFailure(job.Name, report.ParseAnswer(answer), s.decorator)
}

// failureText returns the text to summarize for a job: the Testing Farm
// failure output for delegated jobs, the job trace otherwise
func (s *Summarizer) failureText(ctx context.Context, project string, job gitlab.Job) string {
	log := s.jobs.FetchJobLog(ctx, project, job.ID)

	source := derive.LogSourceFor(job, log)
	if source != derive.SourceTestingFarm {
		s.logger.Info("Processing regular job", "job", job.Name, "characters", len(log))
		return log
	}

	s.logger.Info("Processing Testing Farm job", "job", job.Name)
	reportURL := input.FindReportURL(log)
	if reportURL == "" {
		s.logger.Warn("Testing Farm report URL not found in job log", "job", job.Name)
		return MissingReportURL
	}
	return s.reports.FetchFailureText(ctx, reportURL)
}
