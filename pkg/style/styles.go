package style

import (
	"github.com/arthur-debert/dotfiles-installer/pkg/status"
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	PendingIndicator = MutedStyle.Render("○")
)

var stateStyles = map[status.State]lipgloss.Style{
	status.StateLinked:      lipgloss.NewStyle().Foreground(LinkedColor).Bold(true),
	status.StateMissing:     lipgloss.NewStyle().Foreground(MissingColor).Bold(true),
	status.StateConflict:    lipgloss.NewStyle().Foreground(ConflictColor).Bold(true),
	status.StateForeignLink: lipgloss.NewStyle().Foreground(ForeignLinkColor).Bold(true),
}

// StateStyle returns the style used for a link state.
func StateStyle(state status.State) lipgloss.Style {
	if s, ok := stateStyles[state]; ok {
		return s
	}
	return MutedStyle
}

// Indent pads s by two spaces per level
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
