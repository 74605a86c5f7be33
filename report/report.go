// Package report renders analyzer diagnostics for terminal output.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/zinclang/zinc/sema"
)

// Styles.
var (
	siteStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryStyle = lipgloss.NewStyle().Faint(true)
)

// Writer renders diagnostics to an output stream. The zero value is not
// usable; construct with New.
type Writer struct {
	out   io.Writer
	color bool
}

// Option applies a configuration option to a Writer.
type Option func(*Writer)

// WithColor enables or disables styled output.
func WithColor(enable bool) Option {
	return func(w *Writer) { w.color = enable }
}

// New creates a diagnostic writer targeting out.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out, color: true}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Print renders one diagnostic as
// "file:line:col: severity[kind]: message".
func (w *Writer) Print(d sema.Diagnostic) error {
	site := d.Site.String() + ":"
	severity := d.Severity.String()
	kind := "[" + d.Kind.String() + "]"

	if w.color {
		site = siteStyle.Render(site)
		kind = kindStyle.Render(kind)

		if d.Severity == sema.SeverityError {
			severity = errorStyle.Render(severity)
		} else {
			severity = warningStyle.Render(severity)
		}
	}

	_, err := fmt.Fprintf(w.out, "%s %s%s: %s\n", site, severity, kind, d.Message)

	return err
}

// PrintAll renders a diagnostic list followed by a summary line when any
// diagnostics were reported.
func (w *Writer) PrintAll(diags []sema.Diagnostic) error {
	for _, d := range diags {
		if err := w.Print(d); err != nil {
			return err
		}
	}

	if len(diags) == 0 {
		return nil
	}

	errs, warns := Count(diags)

	summary := fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	if w.color {
		summary = summaryStyle.Render(summary)
	}

	_, err := fmt.Fprintln(w.out, summary)

	return err
}

// Count tallies diagnostics by severity.
func Count(diags []sema.Diagnostic) (errs, warns int) {
	for _, d := range diags {
		if d.Severity == sema.SeverityError {
			errs++
		} else {
			warns++
		}
	}

	return errs, warns
}
