package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dotfiles-installer/pkg/errors"
	"github.com/arthur-debert/dotfiles-installer/pkg/install"
	"github.com/arthur-debert/dotfiles-installer/pkg/status"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Renderer defines the interface for rendering command results
type Renderer interface {
	RenderStatus(report *status.Report) string
	RenderSummary(summary *install.Summary) string
	RenderError(err error) string
}

// NewRenderer returns a plain renderer when colors are off, through noColor
// or the NO_COLOR environment variable, and a terminal renderer otherwise.
func NewRenderer(noColor bool) Renderer {
	if noColor || termenv.EnvNoColor() {
		return NewPlainRenderer()
	}
	return NewTerminalRenderer()
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct{}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderStatus renders one line per managed path followed by totals
func (r *TerminalRenderer) RenderStatus(report *status.Report) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("Dotfiles status") + "\n")

	for _, e := range report.All() {
		indicator := PendingIndicator
		if e.State == status.StateLinked {
			indicator = SuccessIndicator
		}
		line := fmt.Sprintf("%s %s %s", indicator,
			StateStyle(e.State).Render(fmt.Sprintf("%-12s", e.State)),
			PathStyle.Render(e.Path))
		if e.State == status.StateForeignLink {
			line += MutedStyle.Render(" -> " + e.Actual)
		}
		result.WriteString(line + "\n")
	}

	result.WriteString("\n" + renderCounts(report, func(s status.State, text string) string {
		return StateStyle(s).Render(text)
	}))
	return result.String()
}

// RenderSummary renders the outcome of an install
func (r *TerminalRenderer) RenderSummary(summary *install.Summary) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s\n", SuccessIndicator,
		SuccessStyle.Render(fmt.Sprintf("Installed %d links", len(summary.Linked)))))
	if summary.Backup != nil {
		result.WriteString(Indent(fmt.Sprintf("Backup: %s (%d entries)",
			PathStyle.Render(summary.Backup.Root.Path()), len(summary.Backup.Saved)), 1) + "\n")
	}
	if summary.Scripts != nil {
		result.WriteString(Indent(fmt.Sprintf("Scripts: %d run, %d skipped",
			len(summary.Scripts.Ran), len(summary.Scripts.Skipped)), 1) + "\n")
		for _, s := range summary.Scripts.Skipped {
			result.WriteString(Indent(fmt.Sprintf("%s skipped %s", WarningIndicator, PathStyle.Render(s)), 2) + "\n")
		}
	}
	return result.String()
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	code := errors.GetErrorCode(err)
	if code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(code)),
			err.Error())
	}

	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderStatus renders plain status lines
func (r *PlainRenderer) RenderStatus(report *status.Report) string {
	var result strings.Builder
	for _, e := range report.All() {
		line := fmt.Sprintf("%-12s %s", e.State, e.Path)
		if e.State == status.StateForeignLink {
			line += " -> " + e.Actual
		}
		result.WriteString(line + "\n")
	}
	result.WriteString(renderCounts(report, func(_ status.State, text string) string { return text }))
	return result.String()
}

// RenderSummary renders a plain install summary
func (r *PlainRenderer) RenderSummary(summary *install.Summary) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Installed %d links\n", len(summary.Linked)))
	if summary.Backup != nil {
		result.WriteString(fmt.Sprintf("Backup: %s (%d entries)\n", summary.Backup.Root.Path(), len(summary.Backup.Saved)))
	}
	if summary.Scripts != nil {
		result.WriteString(fmt.Sprintf("Scripts: %d run, %d skipped\n", len(summary.Scripts.Ran), len(summary.Scripts.Skipped)))
	}
	return result.String()
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

func renderCounts(report *status.Report, paint func(status.State, string) string) string {
	counts := report.Counts()
	parts := make([]string, 0, len(status.States))
	for _, s := range status.States {
		if n := counts[s]; n > 0 {
			parts = append(parts, paint(s, fmt.Sprintf("%d %s", n, s)))
		}
	}
	return strings.Join(parts, ", ") + "\n"
}
