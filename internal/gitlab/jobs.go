package gitlab

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Attamusc/pipelinebot/internal/cache"
	gl "github.com/xanzy/go-gitlab"
)

const (
	// StatusFailed is the job status selected for reporting
	StatusFailed = "failed"

	listTimeout  = 30 * time.Second
	traceTimeout = 60 * time.Second
	jobsPerPage  = 100
	jobCacheSize = 50
)

// Job represents one GitLab CI job
type Job struct {
	ID     int
	Name   string
	Status string
	Tags   []string
}

// IsFailed reports whether the job finished with the failed status
func (j Job) IsFailed() bool {
	return j.Status == StatusFailed
}

type jobsKey struct {
	project  string
	pipeline string
}

// Client lists pipeline jobs and fetches job traces
type Client struct {
	api    *gl.Client
	logger *slog.Logger
	jobs   *cache.LRU[jobsKey, []Job]
}

// Option configures the Client during construction.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient overrides the default retrying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) {
		cfg.logger = l
	}
}

// New creates a GitLab client for the API rooted at baseURL (for example
// https://gitlab.com/api/v4) authenticated with a private token.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = NewHTTPClient()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Retries are handled by our transport, not the SDK
	api, err := gl.NewClient(token,
		gl.WithBaseURL(baseURL),
		gl.WithHTTPClient(cfg.httpClient),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	api.UserAgent = userAgent

	return &Client{
		api:    api,
		logger: cfg.logger,
		jobs:   cache.NewLRU[jobsKey, []Job](jobCacheSize),
	}, nil
}

// ListJobs returns the jobs of a pipeline in the order GitLab reports them.
// Results are memoized per (project, pipeline) for the life of the client;
// callers always receive their own copy.
func (c *Client) ListJobs(ctx context.Context, project, pipeline string) ([]Job, error) {
	key := jobsKey{project: project, pipeline: pipeline}
	if jobs, ok := c.jobs.Get(key); ok {
		c.logger.Debug("Using cached pipeline jobs", "project", project, "pipeline", pipeline)
		return cloneJobs(jobs), nil
	}

	pipelineID, err := strconv.Atoi(pipeline)
	if err != nil {
		return nil, &RequestError{Err: fmt.Errorf("invalid pipeline id %q: %w", pipeline, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	c.logger.Info("Fetching jobs for pipeline", "project", project, "pipeline", pipeline)
	opts := &gl.ListJobsOptions{ListOptions: gl.ListOptions{PerPage: jobsPerPage}}
	apiJobs, _, err := c.api.Jobs.ListPipelineJobs(project, pipelineID, opts, gl.WithContext(ctx))
	if err != nil {
		c.logger.Error("Error fetching pipeline jobs", "pipeline", pipeline, "error", err)
		return nil, classifyError(err)
	}

	jobs := make([]Job, 0, len(apiJobs))
	for _, j := range apiJobs {
		if j == nil {
			continue
		}
		jobs = append(jobs, Job{
			ID:     j.ID,
			Name:   j.Name,
			Status: j.Status,
			Tags:   append([]string(nil), j.TagList...),
		})
	}

	c.logger.Info("Retrieved jobs from pipeline", "pipeline", pipeline, "jobs", len(jobs))
	c.jobs.Add(key, jobs)
	return cloneJobs(jobs), nil
}

func cloneJobs(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		j.Tags = append([]string(nil), j.Tags...)
		out[i] = j
	}
	return out
}

// FetchJobLog returns the raw trace of a job. Failures are reported inside the
// returned text so that one missing log does not abort the whole report.
func (c *Client) FetchJobLog(ctx context.Context, project string, jobID int) string {
	ctx, cancel := context.WithTimeout(ctx, traceTimeout)
	defer cancel()

	c.logger.Info("Fetching log for job", "job", jobID)
	trace, _, err := c.api.Jobs.GetTraceFile(project, jobID, gl.WithContext(ctx))
	if err != nil {
		c.logger.Error("Error fetching job log", "job", jobID, "error", err)
		return fmt.Sprintf("Error fetching job log: %v", classifyError(err))
	}

	body, err := io.ReadAll(trace)
	if err != nil {
		c.logger.Error("Error reading job log", "job", jobID, "error", err)
		return fmt.Sprintf("Error fetching job log: %v", err)
	}

	c.logger.Info("Retrieved log for job", "job", jobID, "characters", len(body))
	return string(body)
}

// ClearCache drops all memoized job listings.
func (c *Client) ClearCache() {
	c.jobs.Clear()
}
