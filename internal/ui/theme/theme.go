package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/vocabulous/vocabulous/internal/spacedrep"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Due = lipgloss.NewStyle().
		Foreground(Accent)

	Overdue = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Progress bar
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// StateStyle returns the style used to print a learning state.
func StateStyle(s spacedrep.State) lipgloss.Style {
	switch s {
	case spacedrep.StateMastered:
		return Good
	case spacedrep.StateRetained:
		return lipgloss.NewStyle().Foreground(Secondary)
	case spacedrep.StateLearning:
		return Due
	default:
		return Label
	}
}

// StatusStyle returns the style used to print a review status.
func StatusStyle(s spacedrep.ReviewStatus) lipgloss.Style {
	switch s {
	case spacedrep.ReviewOverdue:
		return Overdue
	case spacedrep.ReviewDue:
		return Due
	default:
		return Label
	}
}

// KV renders a "label  value" line.
func KV(label string, value any) string {
	return Label.Render(fmt.Sprintf("%-14s", label)) + " " + Value.Render(fmt.Sprint(value))
}

// Bar renders a horizontal bar of the given width with percent in [0,1]
// filled, followed by the percentage.
func Bar(percent float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * percent)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return ProgressFilled.Render(strings.Repeat(" ", filled)) +
		ProgressEmpty.Render(strings.Repeat(" ", width-filled)) +
		Label.Render(fmt.Sprintf("  %d%%", int(percent*100)))
}
