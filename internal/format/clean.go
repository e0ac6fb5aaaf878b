package format

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxLines is the maximum number of content lines kept per text block
	MaxLines = 10

	TruncatedMarker   = "[Summary truncated]"
	UnavailableMarker = "[Summary not available or too verbose]"
)

// noiseKeywords indicate the backend echoed raw log output instead of summarizing
var noiseKeywords = []string{"traceback", "error:", "exception", "failed at"}

// CleanText trims every line, drops blank lines and keeps at most MaxLines.
// When lines were dropped a decorated truncation marker is appended on its
// own line.
func CleanText(text string, d Decorator) string {
	if text == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) > MaxLines {
		return strings.Join(lines[:MaxLines], "\n") + "\n" + d.Error(TruncatedMarker)
	}
	return strings.Join(lines, "\n")
}

// IsNoisy reports whether a cleaned summary looks like raw log output:
// it is longer than MaxLines (a truncation marker counts as a line) or
// contains one of the noise keywords.
func IsNoisy(summary string) bool {
	if len(strings.Split(summary, "\n")) > MaxLines {
		return true
	}
	lower := strings.ToLower(summary)
	for _, keyword := range noiseKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// fixSeparatorRegex splits on newlines, semicolons and list markers
var fixSeparatorRegex = regexp.MustCompile(`\n|;|\d+\.\s*|-\s+`)

// RenderFixes renders fix suggestions as an indented numbered list
func RenderFixes(fixes string) string {
	if fixes == "" {
		return ""
	}

	var items []string
	for _, part := range fixSeparatorRegex.Split(fixes, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}

	var builder strings.Builder
	for i, item := range items {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "  %d. %s", i+1, item)
	}
	return builder.String()
}
