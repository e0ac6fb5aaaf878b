package format

import (
	"github.com/fatih/color"
)

// Decorator applies presentation markup to the semantic parts of a report.
type Decorator interface {
	Header(s string) string     // job header line
	Reason(s string) string     // "Reason:" label
	FixesLabel(s string) string // "Possible Fixes:" label
	Error(s string) string      // errors and truncation markers
	Success(s string) string    // all-jobs-passed message
}

// PlainDecorator returns text unchanged
type PlainDecorator struct{}

func (PlainDecorator) Header(s string) string     { return s }
func (PlainDecorator) Reason(s string) string     { return s }
func (PlainDecorator) FixesLabel(s string) string { return s }
func (PlainDecorator) Error(s string) string      { return s }
func (PlainDecorator) Success(s string) string    { return s }

// ColorDecorator wraps each span in ANSI colour codes followed by a reset.
type ColorDecorator struct {
	header  *color.Color
	reason  *color.Color
	fixes   *color.Color
	err     *color.Color
	success *color.Color
}

// NewColorDecorator creates a ColorDecorator. Colours are always emitted;
// callers decide whether the destination supports them.
func NewColorDecorator() *ColorDecorator {
	newColor := func(attr color.Attribute) *color.Color {
		c := color.New(attr)
		c.EnableColor()
		return c
	}
	return &ColorDecorator{
		header:  newColor(color.FgCyan),
		reason:  newColor(color.FgYellow),
		fixes:   newColor(color.FgMagenta),
		err:     newColor(color.FgRed),
		success: newColor(color.FgGreen),
	}
}

func (d *ColorDecorator) Header(s string) string     { return d.header.Sprint(s) }
func (d *ColorDecorator) Reason(s string) string     { return d.reason.Sprint(s) }
func (d *ColorDecorator) FixesLabel(s string) string { return d.fixes.Sprint(s) }
func (d *ColorDecorator) Error(s string) string      { return d.err.Sprint(s) }
func (d *ColorDecorator) Success(s string) string    { return d.success.Sprint(s) }
