package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Attamusc/pipelinebot/internal/config"
	"github.com/Attamusc/pipelinebot/internal/format"
	"github.com/Attamusc/pipelinebot/internal/gitlab"
	"github.com/Attamusc/pipelinebot/internal/pipeline"
	"github.com/Attamusc/pipelinebot/internal/testingfarm"
)

type summarizeOptions struct {
	project  string
	pipeline string
	verbose  bool
	quiet    bool
	color    string
	backend  string
}

// reportedError is a failure that has already been written to the report
// output
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func newSummarizeCmd() *cobra.Command {
	opts := &summarizeOptions{}

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize the failed jobs of a pipeline",
		Long: `Summarize lists the jobs of a GitLab pipeline, analyzes every failed job and
prints a failure analysis report on stdout. Progress is logged to stderr.

The pipeline can be given as a numeric ID together with --project, or as a
pipeline URL such as https://gitlab.com/group/project/-/pipelines/123.`,
		Example: `  pipelinebot summarize --project group/project --pipeline 123456
  pipelinebot summarize --pipeline https://gitlab.com/group/project/-/pipelines/123456`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, opts)
		},
	}

	addSummarizeFlags(cmd, opts)
	return cmd
}

func addSummarizeFlags(cmd *cobra.Command, opts *summarizeOptions) {
	cmd.Flags().StringVar(&opts.project, "project", "", "GitLab project ID or path (optional when --pipeline is a URL)")
	cmd.Flags().StringVar(&opts.pipeline, "pipeline", "", "GitLab pipeline ID or pipeline URL")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose progress output")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "Suppress all progress output")
	cmd.Flags().StringVar(&opts.color, "color", config.ColorAuto, "Colorize the report: auto, always or never")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Summarization backend: gemini or none (default from PIPELINEBOT_BACKEND, else gemini)")
	_ = cmd.MarkFlagRequired("pipeline")
}

func runSummarize(cmd *cobra.Command, opts *summarizeOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(config.Flags{
		Project:  opts.project,
		Pipeline: opts.pipeline,
		Verbose:  opts.verbose,
		Quiet:    opts.quiet,
		Color:    opts.color,
		Backend:  opts.backend,
	})
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	progress := newProgress(cfg, stderr)
	logger := setupLogger(cfg, stderr, progress.enabled())
	decorator := newDecorator(cfg.Color, stdout)

	logger.Debug("Configuration loaded",
		"pipeline", cfg.Pipeline.String(),
		"gitlab", cfg.GitLabURL,
		"testingFarm", cfg.TestingFarmURL,
		"summary", cfg.Summary.Enabled,
		"backend", cfg.Summary.Backend)

	jobs, err := gitlab.New(cfg.GitLabURL, cfg.GitLabToken,
		gitlab.WithHTTPClient(gitlab.NewHTTPClient()),
		gitlab.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create GitLab client: %w", err)
	}
	reports := testingfarm.New(cfg.TestingFarmToken, testingfarm.WithLogger(logger))

	runner := pipeline.New(jobs, reports, initSummarizer(cfg, logger),
		pipeline.WithLogger(logger),
		pipeline.WithDecorator(decorator),
		pipeline.OnProgress(progress.update))

	progress.start()
	output, err := runner.Run(ctx, cfg.Pipeline.Project, cfg.Pipeline.ID)
	progress.stop()

	fmt.Fprint(stdout, format.Banner())
	if err != nil {
		logger.Error("Error summarizing pipeline", "error", err)
		fmt.Fprintln(stdout, format.PipelineError(err, decorator))
		return &reportedError{err: err}
	}
	fmt.Fprintln(stdout, output)
	return nil
}
