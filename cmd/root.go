package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // Overwritten at build time

func newRootCmd() *cobra.Command {
	opts := &summarizeOptions{}

	rootCmd := &cobra.Command{
		Use:   "pipelinebot",
		Short: "Summarize failed GitLab pipeline jobs",
		Long: `pipelinebot fetches the failed jobs of a GitLab CI pipeline, collects their
failure output (following Testing Farm report links where a job delegated its
tests), asks an AI backend for a short summary and possible fixes, and prints a
report with one section per failed job.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, opts)
		},
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addSummarizeFlags(rootCmd, opts)

	rootCmd.AddCommand(
		newSummarizeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pipelinebot version %s\n", version)
		},
	}
}

// Execute runs the command tree and reports errors that were not already
// shown in the report output.
func Execute() error {
	err := newRootCmd().Execute()

	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
