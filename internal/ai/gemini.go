package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultCommand is the Gemini CLI executable
	DefaultCommand = "gemini"
	// DefaultTimeout bounds a single backend invocation
	DefaultTimeout = 30 * time.Second

	promptTemplate = `You are an expert CI assistant analyzing job failure logs.

TASK: Analyze the provided error log and provide:
1. A concise summary of the main failure reason (1-2 sentences)
2. Up to 2 actionable suggestions or fixes

FOCUS: Extract only the most relevant error messages, ignore unrelated output.

OUTPUT FORMAT:
Summary: <brief failure summary>
Possible Fixes: <actionable suggestions>

Error log:
%s

Summary and possible fixes:`

	msgTimeout      = "Request timed out. Please try again."
	msgNotInstalled = "Gemini CLI not installed. Please install it first."
	msgUnknownError = "Unknown error"
)

// BuildPrompt embeds logText verbatim in the analysis prompt
func BuildPrompt(logText string) string {
	return fmt.Sprintf(promptTemplate, logText)
}

// BackendError is a failed backend invocation. Message is suitable for
// showing to the user.
type BackendError struct {
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Runner executes name with args and returns what the process wrote to
// stdout and stderr.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// execRunner runs the command as a child process
func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// GeminiCLI implements Summarizer by running `gemini -p <prompt>`
type GeminiCLI struct {
	command string
	timeout time.Duration
	run     Runner
	logger  *slog.Logger
}

// GeminiOption configures a GeminiCLI
type GeminiOption func(*GeminiCLI)

// WithCommand overrides the executable name
func WithCommand(name string) GeminiOption {
	return func(g *GeminiCLI) {
		if name != "" {
			g.command = name
		}
	}
}

// WithTimeout overrides the per-invocation timeout
func WithTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiCLI) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithRunner replaces process execution
func WithRunner(r Runner) GeminiOption {
	return func(g *GeminiCLI) {
		if r != nil {
			g.run = r
		}
	}
}

// WithLogger sets the logger used for backend diagnostics
func WithLogger(logger *slog.Logger) GeminiOption {
	return func(g *GeminiCLI) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGeminiCLI creates a Gemini CLI backed summarizer
func NewGeminiCLI(opts ...GeminiOption) *GeminiCLI {
	g := &GeminiCLI{
		command: DefaultCommand,
		timeout: DefaultTimeout,
		run:     execRunner,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Summarize runs the backend once for logText. A zero exit with non-empty
// output is the only success.
func (g *GeminiCLI) Summarize(ctx context.Context, logText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := BuildPrompt(logText)
	g.logger.Debug("Running summarization backend", "command", g.command, "promptLength", len(prompt))

	start := time.Now()
	stdout, stderr, err := g.run(ctx, g.command, "-p", prompt)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		g.logger.Error("Summarization backend timed out", "timeout", g.timeout)
		return "", &BackendError{Message: msgTimeout, Err: ctx.Err()}
	case errors.Is(err, exec.ErrNotFound):
		g.logger.Error("Summarization backend not found", "command", g.command)
		return "", &BackendError{Message: msgNotInstalled, Err: err}
	}

	answer := strings.TrimSpace(string(stdout))
	if err == nil && answer != "" {
		g.logger.Debug("Summarization backend succeeded", "duration", time.Since(start), "answerLength", len(answer))
		return answer, nil
	}

	// The process never ran or could not be waited on; its stderr is meaningless
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		g.logger.Warn("Summarization backend could not run", "command", g.command, "error", err)
		return "", &BackendError{Message: err.Error(), Err: err}
	}

	detail := strings.TrimSpace(string(stderr))
	if detail == "" {
		detail = msgUnknownError
	}
	g.logger.Warn("Summarization backend failed", "stderr", detail, "error", err)
	return "", &BackendError{Message: "Unable to analyze log. " + detail, Err: err}
}
