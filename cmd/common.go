package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/Attamusc/pipelinebot/internal/ai"
	"github.com/Attamusc/pipelinebot/internal/config"
	"github.com/Attamusc/pipelinebot/internal/format"
)

// initSummarizer creates the appropriate AI summarizer based on configuration
func initSummarizer(cfg *config.Config, logger *slog.Logger) ai.Summarizer {
	if cfg.Summary.Enabled {
		logger.Debug("AI summarization enabled", "backend", cfg.Summary.Backend, "timeout", cfg.Summary.Timeout)
		return ai.NewCachedSummarizer(ai.NewGeminiCLI(
			ai.WithCommand(cfg.Summary.Backend),
			ai.WithTimeout(cfg.Summary.Timeout),
			ai.WithLogger(logger),
		))
	}
	logger.Debug("AI summarization disabled")
	return ai.NewNoopSummarizer()
}

// setupLogger creates a logger configured for progress output. While the
// spinner owns the terminal only warnings and errors are logged.
func setupLogger(cfg *config.Config, w io.Writer, spinnerActive bool) *slog.Logger {
	if cfg.Quiet {
		// Discard all log output when quiet
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError + 1, // Higher than any log level to discard all
		}))
	}

	level := slog.LevelInfo
	switch {
	case cfg.Verbose:
		level = slog.LevelDebug
	case spinnerActive:
		level = slog.LevelWarn
	}

	// Use stderr for progress so stdout stays clean for output
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time stamps for cleaner progress output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newDecorator picks report colouring for the --color mode
func newDecorator(mode string, out io.Writer) format.Decorator {
	switch mode {
	case config.ColorAlways:
		return format.NewColorDecorator()
	case config.ColorNever:
		return format.PlainDecorator{}
	default:
		if isTerminal(out) {
			return format.NewColorDecorator()
		}
		return format.PlainDecorator{}
	}
}

// progressSpinner shows per-job progress on an interactive stderr
type progressSpinner struct {
	s *spinner.Spinner
}

// newProgress returns a spinner when stderr is a terminal and no log level
// was requested explicitly; otherwise a disabled spinner
func newProgress(cfg *config.Config, stderr io.Writer) *progressSpinner {
	if cfg.Verbose || cfg.Quiet || !isTerminal(stderr) {
		return &progressSpinner{}
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriterFile(stderr.(*os.File)))
	s.Suffix = " Fetching pipeline jobs..."
	return &progressSpinner{s: s}
}

func (p *progressSpinner) enabled() bool {
	return p.s != nil
}

func (p *progressSpinner) start() {
	if p.s != nil {
		p.s.Start()
	}
}

func (p *progressSpinner) stop() {
	if p.s != nil {
		p.s.Stop()
	}
}

func (p *progressSpinner) update(done, total int, jobName string) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	defer p.s.Unlock()
	if jobName == "" {
		p.s.Suffix = fmt.Sprintf(" Analyzed %d/%d failed jobs", done, total)
		return
	}
	p.s.Suffix = fmt.Sprintf(" Analyzing job %d/%d: %s", done+1, total, jobName)
}
